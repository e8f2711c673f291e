/* bot.go
 * Contains the Discord bot. It answers standings commands in any channel and posts ticket events to the stewards'
 * channel. Requires a discord bot token and the API, both passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"race-control/api/api"
	"race-control/logger"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// commandTimeout bounds the db reads a single command makes
const commandTimeout = 10 * time.Second

// outboxSize is how many steward notifications can wait for discord before new ones are dropped
const outboxSize = 64

type Bot struct {
	BotToken       string
	APIPtr         *api.API
	StewardChannel string
	Log            zerolog.Logger

	mu      sync.Mutex
	session DiscordSession

	// Steward notifications are posted by one worker so ticket operations never wait on discord
	outboxOnce sync.Once
	outbox     chan string
	pending    sync.WaitGroup
}

// NewBot creates a bot. stewardChannel may be empty, in which case ticket events are not posted
func NewBot(botToken string, apiPtr *api.API, stewardChannel string, log zerolog.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken:       botToken,
		APIPtr:         apiPtr,
		StewardChannel: stewardChannel,
		Log:            logger.Component(log, "bot"),
	}, nil
}

// SetSession sets the session ticket events are posted through. Run sets it once the gateway is open
func (b *Bot) SetSession(session DiscordSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = session
}

func (b *Bot) currentSession() DiscordSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
