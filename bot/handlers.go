/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 * AI-Generated: Extracted runtime functionality from bot.go
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"race-control/api/api"
	"race-control/api/logic"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// maxStandingsRows keeps the standings reply under discord's message size limit
const maxStandingsRows = 20

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Race Control Bot v1.0\n")
	res.WriteString("`$standings`: shows the drivers' championship\n")
	res.WriteString("`$teams`: shows the constructors' championship. Team points are the sum of their drivers' points\n")
	res.WriteString("`$driver name`: shows a driver's team, points and wins. There is fuzzy matching on names. Names that contain two or more words need to be encased in \" (e.g. \"Lewis Hamilton\")\n")
	res.WriteString("Tickets are filed and discussed on the race control console\n")
	b.send(session, message.ChannelID, res.String())
}

// standingsHandler handles the $standings command with a DiscordSession interface
func (b *Bot) standingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	standings, err := b.APIPtr.Standings(ctx)
	if err != nil {
		b.Log.Error().Err(err).Msg("failed to get standings")
		b.send(session, message.ChannelID, "An error occured getting the standings")
		return
	}
	if len(standings.Drivers) == 0 {
		b.send(session, message.ChannelID, "No drivers are registered for this season")
		return
	}

	var res strings.Builder
	res.WriteString("Drivers' championship:\n")
	for i, driver := range standings.Drivers {
		if i == maxStandingsRows {
			res.WriteString(fmt.Sprintf("...and %d more\n", len(standings.Drivers)-maxStandingsRows))
			break
		}
		res.WriteString(fmt.Sprintf("%d. %s (%s) - %d pts\n", i+1, driver.Name, driver.Team, driver.TotalPoints))
	}
	b.send(session, message.ChannelID, res.String())
}

// teamsHandler handles the $teams command with a DiscordSession interface
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	standings, err := b.APIPtr.Standings(ctx)
	if err != nil {
		b.Log.Error().Err(err).Msg("failed to get team standings")
		b.send(session, message.ChannelID, "An error occured getting the teams list")
		return
	}
	if len(standings.Teams) == 0 {
		b.send(session, message.ChannelID, "No teams have drivers this season")
		return
	}

	var res strings.Builder
	res.WriteString("Constructors' championship:\n")
	for i, team := range standings.Teams {
		res.WriteString(fmt.Sprintf("%d. %s - %d pts\n", i+1, team.Name, team.Points))
	}
	b.send(session, message.ChannelID, res.String())
}

// driverHandler handles the $driver command with a DiscordSession interface
func (b *Bot) driverHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.send(session, message.ChannelID, "Usage: `$driver name`, e.g. `$driver \"Lewis Hamilton\"`")
		return
	}
	name := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	driver, err := b.APIPtr.FindDriver(ctx, name)
	if err != nil {
		if errors.Is(err, api.ErrDriverNotFound) {
			b.send(session, message.ChannelID, fmt.Sprintf("No driver matching %s", name))
			return
		}
		b.Log.Error().Err(err).Str("name", name).Msg("failed to find driver")
		b.send(session, message.ChannelID, "An error occured looking up the driver")
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s\n", driver.Name))
	res.WriteString(fmt.Sprintf("Team: %s\n", driver.Team))
	res.WriteString(fmt.Sprintf("Points: %d\n", driver.TotalPoints))
	res.WriteString(fmt.Sprintf("Wins: %d\n", logic.CountWins(driver)))
	b.send(session, message.ChannelID, res.String())
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(session, message)

	case startsWith(message.Content, "$teams"):
		b.teamsHandler(session, message)

	case startsWith(message.Content, "$driver"):
		b.driverHandler(session, message)
	}
}

// commandArgs splits a command into its arguments, dropping the command itself. Quoted arguments may contain spaces
func commandArgs(content string) []string {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil
	}
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil || len(parts) < 2 {
		return nil
	}

	args := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(strings.Trim(part, "\"“”"))
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

func (b *Bot) send(session DiscordSession, channelID string, content string) {
	if _, err := session.ChannelMessageSend(channelID, content); err != nil {
		b.Log.Warn().Err(err).Str("channel", channelID).Msg("failed to send discord message")
	}
}
