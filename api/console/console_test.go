/* console_test.go
 * Contains unit tests for console.go and modes.go
 * Authors: Zachary Bower
 */

package console

import (
	"context"
	"errors"
	"race-control/api/api"
	"race-control/api/shared"
	"race-control/api/store"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func driverIdentity() shared.Identity {
	return shared.Identity{UID: "d1", Email: "max@example.com", DisplayName: "Max"}
}

// newSignedInConsole returns a console whose identity has a profile, so it lands on the dashboard
func newSignedInConsole(t *testing.T, steward bool) (*Console, *api.MockStore) {
	t.Helper()
	m := api.NewMockStore("season_1")
	m.Profiles["max@example.com"] = store.Profile{Email: "max@example.com", Name: "Max"}
	if steward {
		m.StewardGrants["max@example.com"] = true
	}
	c := New(api.New(m, zerolog.Nop()), zerolog.Nop())
	c.SignedIn(context.TODO(), driverIdentity())
	require.Equal(t, ModeDashboard, c.Mode())
	return c, m
}

func sampleTickets() []store.Ticket {
	mine := store.CreateSampleTicket("t1", "d1", "d2")
	other := store.CreateSampleTicket("t2", "d3", "d2")
	other.CreatedAt = mine.CreatedAt.Add(time.Hour)
	return []store.Ticket{mine, other}
}

// region mode tests

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeTicketDetail.Valid())
	assert.False(t, Mode("garage").Valid())
}

func TestMode_NeedsData(t *testing.T) {
	for _, m := range []Mode{ModeDashboard, ModeSettings, ModeTickets, ModeCreateTicket, ModeTicketDetail} {
		assert.True(t, m.NeedsData(), m)
	}
	for _, m := range []Mode{ModeLoading, ModeLogin, ModeOnboarding} {
		assert.False(t, m.NeedsData(), m)
	}
}

// endregion

// region sign-in tests

func TestNew_StartsLoading(t *testing.T) {
	c := New(api.New(api.NewMockStore("season_1"), zerolog.Nop()), zerolog.Nop())
	screen := c.Screen()
	assert.Equal(t, ModeLoading, screen.Mode)
	assert.Equal(t, shared.RoleGuest, screen.Role)
	assert.Nil(t, screen.Identity)
}

func TestSignedIn_WithProfile(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	assert.Len(t, m.DriverWatchers, 1)
	assert.Len(t, m.TicketWatchers, 1)
	assert.Empty(t, m.MessageWatchers)

	screen := c.Screen()
	assert.Equal(t, shared.RoleDriver, screen.Role)
	require.NotNil(t, screen.Profile)
	assert.Equal(t, "Max", screen.Profile.Name)
}

func TestSignedIn_WithoutProfile(t *testing.T) {
	m := api.NewMockStore("season_1")
	c := New(api.New(m, zerolog.Nop()), zerolog.Nop())
	c.SignedIn(context.TODO(), driverIdentity())

	assert.Equal(t, ModeOnboarding, c.Mode())
	assert.Empty(t, m.DriverWatchers)
	assert.Empty(t, m.TicketWatchers)
	assert.ErrorIs(t, c.Navigate(ModeDashboard, ""), ErrNotSignedIn)
}

func TestSignedIn_WithoutEmail(t *testing.T) {
	c := New(api.New(api.NewMockStore("season_1"), zerolog.Nop()), zerolog.Nop())
	c.SignedIn(context.TODO(), shared.Identity{UID: "oidc:123"})

	assert.Equal(t, ModeLogin, c.Mode())
	assert.ErrorIs(t, c.Navigate(ModeOnboarding, ""), ErrNotSignedIn)
}

func TestSignedIn_StewardRole(t *testing.T) {
	c, _ := newSignedInConsole(t, true)
	defer c.Close()
	assert.Equal(t, shared.RoleSteward, c.Screen().Role)
}

func TestOnboarded(t *testing.T) {
	m := api.NewMockStore("season_1")
	c := New(api.New(m, zerolog.Nop()), zerolog.Nop())
	c.SignedIn(context.TODO(), driverIdentity())
	require.Equal(t, ModeOnboarding, c.Mode())

	require.NoError(t, c.Onboarded(store.Profile{Email: "max@example.com", Name: "Max"}))
	assert.Equal(t, ModeDashboard, c.Mode())
	assert.Len(t, m.DriverWatchers, 1)

	viewer, ok := c.Viewer()
	require.True(t, ok)
	require.NotNil(t, viewer.Profile)
	assert.Equal(t, "Max", viewer.Profile.Name)
}

func TestOnboarded_NotSignedIn(t *testing.T) {
	c := New(api.New(api.NewMockStore("season_1"), zerolog.Nop()), zerolog.Nop())
	assert.ErrorIs(t, c.Onboarded(store.Profile{Email: "max@example.com", Name: "Max"}), ErrNotSignedIn)
}

func TestSetAuthError(t *testing.T) {
	c := New(api.New(api.NewMockStore("season_1"), zerolog.Nop()), zerolog.Nop())
	c.SetAuthError("Incorrect password.")

	screen := c.Screen()
	assert.Equal(t, ModeLogin, screen.Mode)
	assert.Equal(t, "Incorrect password.", screen.AuthError)
}

// endregion

// region navigation tests

func TestNavigate_UnknownMode(t *testing.T) {
	c, _ := newSignedInConsole(t, false)
	defer c.Close()

	err := c.Navigate("garage", "")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, ModeDashboard, c.Mode())
}

func TestNavigate_DataModesShareSubscriptions(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	for _, mode := range []Mode{ModeSettings, ModeTickets, ModeCreateTicket, ModeDashboard} {
		require.NoError(t, c.Navigate(mode, ""))
	}
	assert.Len(t, m.DriverWatchers, 1)
	assert.Len(t, m.TicketWatchers, 1)
	assert.False(t, m.LatestDriverWatch().Closed())
}

func TestNavigate_LoginTearsDown(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	require.NoError(t, c.Navigate(ModeLogin, ""))
	assert.True(t, m.LatestDriverWatch().Closed())
	assert.True(t, m.LatestTicketWatch().Closed())

	require.NoError(t, c.Navigate(ModeDashboard, ""))
	assert.Len(t, m.DriverWatchers, 2)
	assert.False(t, m.LatestDriverWatch().Closed())
}

func TestNavigate_TicketDetailNeedsTicket(t *testing.T) {
	c, _ := newSignedInConsole(t, false)
	defer c.Close()
	assert.ErrorIs(t, c.Navigate(ModeTicketDetail, ""), ErrNoTicket)
}

func TestNavigate_WatchErrorStillNavigates(t *testing.T) {
	m := api.NewMockStore("season_1")
	m.Profiles["max@example.com"] = store.Profile{Email: "max@example.com", Name: "Max"}
	m.WatchError = errors.New("change streams unavailable")
	c := New(api.New(m, zerolog.Nop()), zerolog.Nop())
	defer c.Close()

	c.SignedIn(context.TODO(), driverIdentity())
	assert.Equal(t, ModeDashboard, c.Mode())
	assert.Empty(t, c.Screen().Standings)
}

// endregion

// region snapshot tests

func TestScreen_Standings(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	drivers := store.CreateSampleDrivers()
	m.LatestDriverWatch().Push(drivers)

	screen := c.Screen()
	require.Len(t, screen.Standings, 3)
	assert.Equal(t, "d3", screen.Standings[0].ID)
	require.Len(t, screen.Teams, 2)
	assert.Equal(t, "B", screen.Teams[0].Name)
	assert.Equal(t, 20, screen.Teams[0].Points)
	assert.Equal(t, "A", screen.Teams[1].Name)
	assert.Equal(t, 15, screen.Teams[1].Points)

	require.NotNil(t, screen.Stats)
	assert.Equal(t, 10, screen.Stats.Points)
	assert.Equal(t, 1, screen.Stats.Wins)
	assert.Equal(t, "A", screen.Stats.Team)
	assert.Len(t, c.Roster(), 3)
}

func TestScreen_PushReplacesSnapshot(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	m.LatestDriverWatch().Push(store.CreateSampleDrivers())
	m.LatestDriverWatch().Push([]store.Driver{{ID: "d9", Name: "Late Entry", Team: "C", TotalPoints: 1}})

	screen := c.Screen()
	require.Len(t, screen.Standings, 1)
	assert.Equal(t, "d9", screen.Standings[0].ID)
}

func TestScreen_SubscriptionErrorKeepsSnapshot(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	m.LatestDriverWatch().Push(store.CreateSampleDrivers())
	m.LatestDriverWatch().Fail(errors.New("stream reset"))

	assert.Len(t, c.Screen().Standings, 3)
}

func TestScreen_HidesDataOutsideDataModes(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	m.LatestDriverWatch().Push(store.CreateSampleDrivers())
	require.NoError(t, c.Navigate(ModeLogin, ""))

	screen := c.Screen()
	assert.Nil(t, screen.Standings)
	assert.Nil(t, screen.Stats)
}

func TestScreen_TicketVisibility(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	m.LatestTicketWatch().Push(sampleTickets())
	screen := c.Screen()
	require.Len(t, screen.Tickets, 1)
	assert.Equal(t, "t1", screen.Tickets[0].ID)
}

func TestScreen_StewardSeesAllTickets(t *testing.T) {
	c, m := newSignedInConsole(t, true)
	defer c.Close()

	m.LatestTicketWatch().Push(sampleTickets())
	screen := c.Screen()
	require.Len(t, screen.Tickets, 2)
	assert.Equal(t, "t2", screen.Tickets[0].ID)
}

// endregion

// region ticket detail tests

func TestTicketDetail_MessageSubscription(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()
	m.LatestTicketWatch().Push(sampleTickets())

	require.NoError(t, c.Navigate(ModeTicketDetail, "t1"))
	require.Len(t, m.MessageWatchers, 1)
	assert.Equal(t, "t1", m.LatestMessageWatch().TicketID)

	screen := c.Screen()
	require.NotNil(t, screen.ActiveTicket)
	assert.Equal(t, "t1", screen.ActiveTicket.ID)
	assert.NotNil(t, screen.Messages)
	assert.Empty(t, screen.Messages)

	m.LatestMessageWatch().Push([]store.ChatMessage{{ID: "m1", TicketID: "t1", SenderID: "d1", Text: "hello"}})
	screen = c.Screen()
	require.Len(t, screen.Messages, 1)
	assert.Equal(t, "hello", screen.Messages[0].Text)
}

func TestTicketDetail_LeavingClosesMessages(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()

	require.NoError(t, c.Navigate(ModeTicketDetail, "t1"))
	watch := m.LatestMessageWatch()
	require.NoError(t, c.Navigate(ModeTickets, ""))

	assert.True(t, watch.Closed())
	assert.False(t, m.LatestTicketWatch().Closed())
	assert.Nil(t, c.Screen().Messages)
}

func TestTicketDetail_SwitchingTickets(t *testing.T) {
	c, m := newSignedInConsole(t, true)
	defer c.Close()
	m.LatestTicketWatch().Push(sampleTickets())

	require.NoError(t, c.Navigate(ModeTicketDetail, "t1"))
	first := m.LatestMessageWatch()
	require.NoError(t, c.Navigate(ModeTicketDetail, "t1"))
	assert.Len(t, m.MessageWatchers, 1)

	require.NoError(t, c.Navigate(ModeTicketDetail, "t2"))
	assert.True(t, first.Closed())
	require.Len(t, m.MessageWatchers, 2)
	assert.Equal(t, "t2", m.LatestMessageWatch().TicketID)
	assert.Equal(t, "t2", c.Screen().ActiveTicket.ID)
}

func TestTicketDetail_NotVisible(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()
	m.LatestTicketWatch().Push(sampleTickets())

	require.NoError(t, c.Navigate(ModeTicketDetail, "t2"))
	m.LatestMessageWatch().Push([]store.ChatMessage{{ID: "m1", TicketID: "t2", SenderID: "d3", Text: "private"}})

	screen := c.Screen()
	assert.Nil(t, screen.ActiveTicket)
	assert.Nil(t, screen.Messages)
}

// endregion

// region sign-out tests

func TestSignedOut(t *testing.T) {
	c, m := newSignedInConsole(t, false)
	defer c.Close()
	require.NoError(t, c.Navigate(ModeTicketDetail, "t1"))

	c.SignedOut()
	assert.True(t, m.LatestDriverWatch().Closed())
	assert.True(t, m.LatestTicketWatch().Closed())
	assert.True(t, m.LatestMessageWatch().Closed())

	screen := c.Screen()
	assert.Equal(t, ModeLogin, screen.Mode)
	assert.Nil(t, screen.Identity)
	_, ok := c.Viewer()
	assert.False(t, ok)
	assert.Nil(t, c.Roster())
}

// endregion
