/* notifier.go
 * Posts ticket events to the stewards' channel
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"race-control/api/api"
	"race-control/api/store"
)

var _ api.Notifier = (*Bot)(nil)

// TicketCreated tells the stewards a ticket was filed
func (b *Bot) TicketCreated(ticket store.Ticket) {
	b.notify(fmt.Sprintf("New ticket %s: %s reported %s (%s, lap %s)\n%s",
		shortID(ticket.ID), ticket.ReporterName, ticket.AccusedName, ticket.Session, lapOrUnknown(ticket.Lap), ticket.Description))
}

// TicketSummoned tells the stewards the accused was summoned
func (b *Bot) TicketSummoned(ticket store.Ticket) {
	b.notify(fmt.Sprintf("Ticket %s: %s has been summoned", shortID(ticket.ID), ticket.AccusedName))
}

// TicketClosed tells the stewards a ruling was given
func (b *Bot) TicketClosed(ticket store.Ticket) {
	ruling := ""
	if ticket.Ruling != nil {
		ruling = *ticket.Ruling
	}
	b.notify(fmt.Sprintf("Ticket %s closed: %s", shortID(ticket.ID), ruling))
}

// notify queues a post to the stewards' channel and returns straight away. Events are dropped when no channel is
// set, when the outbox is full, or when the bot is not connected by the time the event is delivered
func (b *Bot) notify(content string) {
	if b.StewardChannel == "" {
		return
	}
	b.outboxOnce.Do(func() {
		b.outbox = make(chan string, outboxSize)
		go b.deliver()
	})

	b.pending.Add(1)
	select {
	case b.outbox <- content:
	default:
		b.pending.Done()
		b.Log.Warn().Msg("steward outbox is full, dropping ticket event")
	}
}

// deliver posts queued notifications in the order they were raised
func (b *Bot) deliver() {
	for content := range b.outbox {
		if session := b.currentSession(); session != nil {
			b.send(session, b.StewardChannel, content)
		}
		b.pending.Done()
	}
}

// flush blocks until every queued notification has been delivered or dropped
func (b *Bot) flush() {
	b.pending.Wait()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func lapOrUnknown(lap string) string {
	if lap == "" {
		return "?"
	}
	return lap
}
