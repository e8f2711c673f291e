/* tickets_test.go
 * Contains unit tests for tickets.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"race-control/api/shared"
	"race-control/api/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTickets() []store.Ticket {
	t1 := store.CreateSampleTicket("t1", "r1", "a1")
	t2 := store.CreateSampleTicket("t2", "r2", "r1")
	t2.CreatedAt = t1.CreatedAt.Add(time.Hour)
	t3 := store.CreateSampleTicket("t3", "r3", "a3")
	t3.AccessList = append(t3.AccessList, "a3")
	t3.CreatedAt = t1.CreatedAt.Add(2 * time.Hour)
	return []store.Ticket{t1, t2, t3}
}

// TestVisibleTickets_DriverSeesOnlyAccessList tests that non stewards only see tickets they are on the access list of
func TestVisibleTickets_DriverSeesOnlyAccessList(t *testing.T) {
	visible := VisibleTickets(sampleTickets(), "r1", shared.RoleDriver)

	require.Len(t, visible, 1)
	assert.Equal(t, "t1", visible[0].ID)
	for _, ticket := range visible {
		assert.Contains(t, ticket.AccessList, "r1")
	}
}

// TestVisibleTickets_AccusedBeforeSummon tests that being named as accused does not grant access
func TestVisibleTickets_AccusedBeforeSummon(t *testing.T) {
	visible := VisibleTickets(sampleTickets(), "a1", shared.RoleDriver)
	assert.Empty(t, visible)

	visible = VisibleTickets(sampleTickets(), "a3", shared.RoleDriver)
	require.Len(t, visible, 1)
	assert.Equal(t, "t3", visible[0].ID)
}

// TestVisibleTickets_StewardSeesAll tests that stewards see every ticket newest first
func TestVisibleTickets_StewardSeesAll(t *testing.T) {
	visible := VisibleTickets(sampleTickets(), "steward", shared.RoleSteward)

	require.Len(t, visible, 3)
	assert.Equal(t, "t3", visible[0].ID)
	assert.Equal(t, "t2", visible[1].ID)
	assert.Equal(t, "t1", visible[2].ID)
}

// TestVisibleTickets_NoViewer tests that an empty viewer id sees nothing unless steward
func TestVisibleTickets_NoViewer(t *testing.T) {
	assert.Empty(t, VisibleTickets(sampleTickets(), "", shared.RoleGuest))
}

// TestCanTransition tests every status pair
func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to store.TicketStatus
		want     bool
	}{
		{store.StatusOpen, store.StatusInvestigating, true},
		{store.StatusOpen, store.StatusClosed, true},
		{store.StatusOpen, store.StatusOpen, false},
		{store.StatusInvestigating, store.StatusInvestigating, true},
		{store.StatusInvestigating, store.StatusClosed, true},
		{store.StatusInvestigating, store.StatusOpen, false},
		{store.StatusClosed, store.StatusOpen, false},
		{store.StatusClosed, store.StatusInvestigating, false},
		{store.StatusClosed, store.StatusClosed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

// TestIsSteward tests the role check
func TestIsSteward(t *testing.T) {
	assert.True(t, IsSteward(shared.RoleSteward))
	assert.False(t, IsSteward(shared.RoleDriver))
	assert.False(t, IsSteward(shared.RoleGuest))
}
