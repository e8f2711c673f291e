/* handlers_test.go
 * Contains unit tests for bot command handlers using mock Discord session
 * AI-Generated
 */

package bot

import (
	"errors"
	"fmt"
	"race-control/api/api"
	"race-control/api/store"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestBot creates a Bot over a mock store holding the sample roster
func createTestBot() (*Bot, *api.MockStore) {
	mockStore := api.NewMockStore("season_1")
	mockStore.Drivers = store.CreateSampleDrivers()
	return &Bot{
		BotToken:       "test_token",
		APIPtr:         api.New(mockStore, zerolog.Nop()),
		StewardChannel: "stewards",
		Log:            zerolog.Nop(),
	}, mockStore
}

// createMockMessage creates a mock Discord message for testing
func createMockMessage(content, userID, username, channelID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: channelID,
			Author: &discordgo.User{
				ID:       userID,
				Username: username,
			},
		},
	}
}

// region helpMessage tests

func TestHelpMessage_Success(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$help", "user123", "TestUser", "channel123")

	bot.helpMessageHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Equal(t, "channel123", msg.ChannelID)
	assert.Contains(t, msg.Content, "Race Control Bot")
	assert.Contains(t, msg.Content, "$standings")
	assert.Contains(t, msg.Content, "$teams")
	assert.Contains(t, msg.Content, "$driver")
}

// endregion

// region standings tests

func TestStandings_Success(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.standingsHandler(mockSession, createMockMessage("$standings", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	lines := strings.Split(strings.TrimSpace(mockSession.GetLastMessage().Content), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1. Driver Three (B) - 20 pts", lines[1])
	assert.Equal(t, "2. Driver One (A) - 10 pts", lines[2])
	assert.Equal(t, "3. Driver Two (A) - 5 pts", lines[3])
}

func TestStandings_Empty(t *testing.T) {
	bot, mockStore := createTestBot()
	mockStore.Drivers = nil
	mockSession := NewMockDiscordSession()

	bot.standingsHandler(mockSession, createMockMessage("$standings", "user123", "TestUser", "channel123"))

	assert.Equal(t, "No drivers are registered for this season", mockSession.GetLastMessage().Content)
}

func TestStandings_Truncated(t *testing.T) {
	bot, mockStore := createTestBot()
	mockStore.Drivers = nil
	for i := 0; i < maxStandingsRows+5; i++ {
		mockStore.Drivers = append(mockStore.Drivers, store.Driver{ID: fmt.Sprintf("d%d", i), Name: fmt.Sprintf("Driver %d", i), Team: "A"})
	}
	mockSession := NewMockDiscordSession()

	bot.standingsHandler(mockSession, createMockMessage("$standings", "user123", "TestUser", "channel123"))

	assert.Contains(t, mockSession.GetLastMessage().Content, "...and 5 more")
}

func TestStandings_StoreError(t *testing.T) {
	bot, mockStore := createTestBot()
	mockStore.ListDriversError = errors.New("db down")
	mockSession := NewMockDiscordSession()

	bot.standingsHandler(mockSession, createMockMessage("$standings", "user123", "TestUser", "channel123"))

	assert.Equal(t, "An error occured getting the standings", mockSession.GetLastMessage().Content)
}

// endregion

// region teams tests

func TestTeams_Success(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.teamsHandler(mockSession, createMockMessage("$teams", "user123", "TestUser", "channel123"))

	content := mockSession.GetLastMessage().Content
	assert.Contains(t, content, "1. B - 20 pts")
	assert.Contains(t, content, "2. A - 15 pts")
}

func TestTeams_StoreError(t *testing.T) {
	bot, mockStore := createTestBot()
	mockStore.ListDriversError = errors.New("db down")
	mockSession := NewMockDiscordSession()

	bot.teamsHandler(mockSession, createMockMessage("$teams", "user123", "TestUser", "channel123"))

	assert.Equal(t, "An error occured getting the teams list", mockSession.GetLastMessage().Content)
}

// endregion

// region driver tests

func TestDriver_QuotedName(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.driverHandler(mockSession, createMockMessage(`$driver "Driver One"`, "user123", "TestUser", "channel123"))

	content := mockSession.GetLastMessage().Content
	assert.Contains(t, content, "Driver One")
	assert.Contains(t, content, "Team: A")
	assert.Contains(t, content, "Points: 10")
	assert.Contains(t, content, "Wins: 1")
}

func TestDriver_FuzzyName(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.driverHandler(mockSession, createMockMessage("$driver three", "user123", "TestUser", "channel123"))

	content := mockSession.GetLastMessage().Content
	assert.Contains(t, content, "Driver Three")
	assert.Contains(t, content, "Wins: 0")
}

func TestDriver_NotFound(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.driverHandler(mockSession, createMockMessage("$driver zzz", "user123", "TestUser", "channel123"))

	assert.Equal(t, "No driver matching zzz", mockSession.GetLastMessage().Content)
}

func TestDriver_NoName(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.driverHandler(mockSession, createMockMessage("$driver", "user123", "TestUser", "channel123"))

	assert.Contains(t, mockSession.GetLastMessage().Content, "Usage")
}

// endregion

// region newMessageHandler tests

func TestNewMessageHandler_Routes(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"$help", "Race Control Bot"},
		{"$standings", "Drivers' championship"},
		{"$teams", "Constructors' championship"},
		{"$driver one", "Driver One"},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			bot, _ := createTestBot()
			mockSession := NewMockDiscordSession()

			bot.newMessageHandler(mockSession, createMockMessage(tt.content, "user123", "TestUser", "channel123"), "bot123")

			require.Len(t, mockSession.SentMessages, 1)
			assert.Contains(t, mockSession.GetLastMessage().Content, tt.want)
		})
	}
}

func TestNewMessageHandler_IgnoresSelf(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.newMessageHandler(mockSession, createMockMessage("$help", "bot123", "Bot", "channel123"), "bot123")

	assert.Empty(t, mockSession.SentMessages)
}

func TestNewMessageHandler_IgnoresUnknown(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()

	bot.newMessageHandler(mockSession, createMockMessage("good race everyone", "user123", "TestUser", "channel123"), "bot123")

	assert.Empty(t, mockSession.SentMessages)
}

func TestNewMessageHandler_SendError(t *testing.T) {
	bot, _ := createTestBot()
	mockSession := NewMockDiscordSession()
	mockSession.ErrorToReturn = errors.New("rate limited")

	// Send failures are logged, not panicked on
	bot.newMessageHandler(mockSession, createMockMessage("$help", "user123", "TestUser", "channel123"), "bot123")
	assert.Empty(t, mockSession.SentMessages)
}

// endregion
