/* tickets.go
 * Contains the dispute workflow operations. Role and access checks happen here before anything is written
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"race-control/api/logic"
	"race-control/api/shared"
	"race-control/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// CreateTicket files a new ticket for the viewer
// Preconditions: Receives context, the viewer, the form and the roster snapshot the form was filled from. A nil roster is read from the db
// Postconditions: Returns the stored Ticket, or an error if the viewer has no profile, the form is invalid or the write fails
func (a *API) CreateTicket(ctx context.Context, viewer Viewer, input TicketInput, roster []store.Driver) (store.Ticket, error) {
	profile, err := profileFor(viewer)
	if err != nil {
		return store.Ticket{}, err
	}
	accusedID, ok := logic.CleanText(input.AccusedID)
	if !ok {
		return store.Ticket{}, fmt.Errorf("%w: an accused driver is required", ErrInvalidInput)
	}
	description, ok := logic.CleanText(input.Description)
	if !ok {
		return store.Ticket{}, fmt.Errorf("%w: a description is required", ErrInvalidInput)
	}
	session, ok := logic.CleanText(input.Session)
	if !ok {
		session = DefaultSession
	}

	if roster == nil {
		roster, err = a.Store.ListDrivers(ctx)
		if err != nil {
			return store.Ticket{}, err
		}
	}
	accusedName := UnknownDriverName
	if accused, found := logic.FindDriver(roster, accusedID); found {
		accusedName = accused.Name
	}

	ticket := store.Ticket{
		ID:           a.newID(),
		ReporterID:   viewer.Identity.UID,
		ReporterName: profile.Name,
		AccusedID:    accusedID,
		AccusedName:  accusedName,
		Session:      session,
		Lap:          input.Lap,
		Description:  description,
		Evidence:     input.Evidence,
		Status:       store.StatusOpen,
		Ruling:       nil,
		AccessList:   []string{viewer.Identity.UID},
		CreatedAt:    a.now(),
	}
	if err := a.Store.CreateTicket(ctx, ticket); err != nil {
		return store.Ticket{}, err
	}

	a.Metrics.TicketCreated()
	a.Log.Info().Str("ticket", ticket.ID).Str("reporter", ticket.ReporterID).Msg("ticket created")
	if a.Notifier != nil {
		a.Notifier.TicketCreated(ticket)
	}
	return ticket, nil
}

// ListTickets returns the tickets the viewer may see, newest first
// Preconditions: Receives context and the viewer
// Postconditions: Returns the visible tickets, or an error if they could not be read
func (a *API) ListTickets(ctx context.Context, viewer Viewer) ([]store.Ticket, error) {
	tickets, err := a.Store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	return logic.VisibleTickets(tickets, viewer.Identity.UID, viewer.Role), nil
}

// GetTicket returns one ticket with its message log
// Preconditions: Receives context, the viewer and the ticket id
// Postconditions: Returns the TicketView, ErrTicketNotFound, ErrForbidden if the viewer may not see it, or another error
func (a *API) GetTicket(ctx context.Context, viewer Viewer, ticketID string) (TicketView, error) {
	ticket, err := a.viewableTicket(ctx, viewer, ticketID)
	if err != nil {
		return TicketView{}, err
	}
	messages, err := a.Store.ListMessages(ctx, ticketID)
	if err != nil {
		return TicketView{}, err
	}
	return TicketView{Ticket: ticket, Messages: messages}, nil
}

// Summon grants the accused access to the ticket and moves it to Investigating
// Preconditions: Receives context, a steward viewer and the ticket id
// Postconditions: Returns the updated Ticket, ErrForbidden, ErrTicketNotFound, ErrTicketClosed, or another error.
// Summoning an accused who already has access changes nothing and posts no second system message
func (a *API) Summon(ctx context.Context, viewer Viewer, ticketID string) (store.Ticket, error) {
	if !logic.IsSteward(viewer.Role) {
		return store.Ticket{}, ErrForbidden
	}
	ticket, err := a.fetchTicket(ctx, ticketID)
	if err != nil {
		return store.Ticket{}, err
	}
	if !logic.CanTransition(ticket.Status, store.StatusInvestigating) {
		return store.Ticket{}, ErrTicketClosed
	}

	changed, err := a.Store.SummonAccused(ctx, ticketID, ticket.AccusedID)
	if err != nil {
		return store.Ticket{}, translateStoreError(err)
	}
	if !containsID(ticket.AccessList, ticket.AccusedID) {
		ticket.AccessList = append(ticket.AccessList, ticket.AccusedID)
	}
	ticket.Status = store.StatusInvestigating
	if !changed {
		a.Log.Debug().Str("ticket", ticketID).Msg("accused already summoned")
		return ticket, nil
	}

	a.appendSystemMessage(ctx, ticketID, SummonedMessage)
	a.Metrics.TicketTransition(string(store.StatusInvestigating))
	a.Log.Info().Str("ticket", ticketID).Str("accused", ticket.AccusedID).Msg("driver summoned")
	if a.Notifier != nil {
		a.Notifier.TicketSummoned(ticket)
	}
	return ticket, nil
}

// Close closes a ticket with a ruling. Nothing can change a ticket after this
// Preconditions: Receives context, a steward viewer, the ticket id and the ruling
// Postconditions: Returns the closed Ticket, ErrForbidden, ErrEmptyRuling, ErrTicketNotFound, ErrTicketClosed, or another error
func (a *API) Close(ctx context.Context, viewer Viewer, ticketID string, ruling string) (store.Ticket, error) {
	if !logic.IsSteward(viewer.Role) {
		return store.Ticket{}, ErrForbidden
	}
	ruling, ok := logic.CleanText(ruling)
	if !ok {
		return store.Ticket{}, ErrEmptyRuling
	}
	ticket, err := a.fetchTicket(ctx, ticketID)
	if err != nil {
		return store.Ticket{}, err
	}
	if !logic.CanTransition(ticket.Status, store.StatusClosed) {
		return store.Ticket{}, ErrTicketClosed
	}

	if err := a.Store.CloseTicket(ctx, ticketID, ruling); err != nil {
		return store.Ticket{}, translateStoreError(err)
	}
	ticket.Status = store.StatusClosed
	ticket.Ruling = &ruling

	a.appendSystemMessage(ctx, ticketID, closedMessagePrefix+ruling)
	a.Metrics.TicketTransition(string(store.StatusClosed))
	a.Log.Info().Str("ticket", ticketID).Msg("ticket closed")
	if a.Notifier != nil {
		a.Notifier.TicketClosed(ticket)
	}
	return ticket, nil
}

// SendMessage appends a chat message to a ticket the viewer can see
// Preconditions: Receives context, the viewer, the ticket id and the message text
// Postconditions: Returns the stored ChatMessage, ErrEmptyMessage, ErrTicketNotFound, ErrForbidden, ErrTicketClosed, or another error
func (a *API) SendMessage(ctx context.Context, viewer Viewer, ticketID string, text string) (store.ChatMessage, error) {
	text, ok := logic.CleanText(text)
	if !ok {
		return store.ChatMessage{}, ErrEmptyMessage
	}
	ticket, err := a.viewableTicket(ctx, viewer, ticketID)
	if err != nil {
		return store.ChatMessage{}, err
	}
	if ticket.Status == store.StatusClosed {
		return store.ChatMessage{}, ErrTicketClosed
	}

	senderName := shared.StewardName
	if !logic.IsSteward(viewer.Role) {
		profile, err := profileFor(viewer)
		if err != nil {
			return store.ChatMessage{}, err
		}
		senderName = profile.Name
	}

	message := store.ChatMessage{
		ID:         a.newID(),
		TicketID:   ticketID,
		SenderID:   viewer.Identity.UID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  a.now(),
	}
	if err := a.Store.AppendMessage(ctx, message); err != nil {
		return store.ChatMessage{}, err
	}
	a.Metrics.MessageSent()
	return message, nil
}

// viewableTicket fetches a ticket and checks the viewer may see it
func (a *API) viewableTicket(ctx context.Context, viewer Viewer, ticketID string) (store.Ticket, error) {
	ticket, err := a.fetchTicket(ctx, ticketID)
	if err != nil {
		return store.Ticket{}, err
	}
	if !logic.CanView(ticket, viewer.Identity.UID, viewer.Role) {
		return store.Ticket{}, ErrForbidden
	}
	return ticket, nil
}

func (a *API) fetchTicket(ctx context.Context, ticketID string) (store.Ticket, error) {
	if ticketID == "" {
		return store.Ticket{}, ErrTicketNotFound
	}
	ticket, err := a.Store.GetTicket(ctx, ticketID)
	if err != nil {
		return store.Ticket{}, translateStoreError(err)
	}
	return ticket, nil
}

// appendSystemMessage records a workflow action in the ticket's message log. The status change has already been
// written, so a failure here is logged rather than returned
func (a *API) appendSystemMessage(ctx context.Context, ticketID string, text string) {
	message := store.ChatMessage{
		ID:         a.newID(),
		TicketID:   ticketID,
		SenderID:   shared.SystemSenderID,
		SenderName: shared.SystemSenderName,
		Text:       text,
		Timestamp:  a.now(),
	}
	if err := a.Store.AppendMessage(ctx, message); err != nil {
		a.Log.Error().Err(err).Str("ticket", ticketID).Msg("failed to append system message")
	}
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrTicketNotFound
	case errors.Is(err, store.ErrTicketClosed):
		return ErrTicketClosed
	default:
		return err
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
