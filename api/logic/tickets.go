/* tickets.go
 * Contains the rules of the dispute workflow: who can see a ticket and which status changes are allowed
 * Authors: Zachary Bower
 */

package logic

import (
	"race-control/api/shared"
	"race-control/api/store"
	"slices"
	"sort"
)

// CanView reports whether a viewer may see a ticket. Stewards see every ticket, anyone else must be on its access list
func CanView(ticket store.Ticket, viewerID string, role shared.Role) bool {
	if role == shared.RoleSteward {
		return true
	}
	if viewerID == "" {
		return false
	}
	return slices.Contains(ticket.AccessList, viewerID)
}

// VisibleTickets filters a ticket snapshot down to what the viewer may see
// Preconditions: receives the ticket snapshot, the viewer's uid and role
// Postconditions: returns a new slice of visible tickets, newest first
func VisibleTickets(tickets []store.Ticket, viewerID string, role shared.Role) []store.Ticket {
	visible := []store.Ticket{}
	for _, t := range tickets {
		if CanView(t, viewerID, role) {
			visible = append(visible, t)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}

// CanTransition reports whether a ticket may move from one status to another.
// Open can move to Investigating or Closed, Investigating can stay Investigating (repeat summons) or close, Closed is final
func CanTransition(from store.TicketStatus, to store.TicketStatus) bool {
	switch from {
	case store.StatusOpen:
		return to == store.StatusInvestigating || to == store.StatusClosed
	case store.StatusInvestigating:
		return to == store.StatusInvestigating || to == store.StatusClosed
	default:
		return false
	}
}

// IsSteward reports whether a role may summon and close
func IsSteward(role shared.Role) bool {
	return role == shared.RoleSteward
}
