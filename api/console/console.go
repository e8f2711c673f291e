/* console.go
 * Contains the console: the server side state of one signed-in browser session. It holds the active screen and the
 * caches fed by live subscriptions. Every push replaces a whole snapshot under the lock so a render never sees a
 * half updated cache
 * Authors: Zachary Bower
 */

package console

import (
	"context"
	"errors"
	"fmt"
	"race-control/api/api"
	"race-control/api/logic"
	"race-control/api/shared"
	"race-control/api/store"
	"race-control/logger"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownMode is returned when navigating to a screen that does not exist
	ErrUnknownMode = errors.New("unknown screen")
	// ErrNotSignedIn is returned when a screen needs a signed-in session with a profile
	ErrNotSignedIn = errors.New("sign in and complete onboarding first")
	// ErrNoTicket is returned when navigating to ticket detail without a ticket
	ErrNoTicket = errors.New("no ticket selected")
)

// Screen is a snapshot of everything the browser needs to render the active screen
type Screen struct {
	Mode         Mode                 `json:"mode"`
	Identity     *shared.Identity     `json:"identity,omitempty"`
	Role         shared.Role          `json:"role,omitempty"`
	Profile      *store.Profile       `json:"profile,omitempty"`
	Stats        *logic.DriverStats   `json:"stats,omitempty"`
	Standings    []store.Driver       `json:"standings,omitempty"`
	Teams        []logic.TeamStanding `json:"teams,omitempty"`
	Tickets      []store.Ticket       `json:"tickets,omitempty"`
	ActiveTicket *store.Ticket        `json:"activeTicket,omitempty"`
	Messages     []store.ChatMessage  `json:"messages,omitempty"`
	AuthError    string               `json:"authError,omitempty"`
}

// Console is the view router of one browser session
type Console struct {
	api *api.API
	log zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	mode           Mode
	session        *api.SessionState
	authError      string
	activeTicketID string

	drivers   []store.Driver
	standings logic.Standings
	tickets   []store.Ticket
	messages  []store.ChatMessage

	// generation is bumped whenever subscriptions are torn down so late pushes from them are dropped
	generation int
	rosterSub  store.Subscription
	ticketSub  store.Subscription
	messageSub store.Subscription
	messageFor string
}

// New creates a console on the loading screen
func New(a *api.API, log zerolog.Logger) *Console {
	ctx, cancel := context.WithCancel(context.Background())
	return &Console{
		api:    a,
		log:    logger.Component(log, "console"),
		ctx:    ctx,
		cancel: cancel,
		mode:   ModeLoading,
	}
}

// SignedIn resolves the identity and moves to the screen it should land on
// Preconditions: Receives context and the identity reported by the identity provider
// Postconditions: The console shows login, onboarding or the dashboard
func (c *Console) SignedIn(ctx context.Context, identity shared.Identity) {
	state := c.api.ResolveSession(ctx, identity)

	c.mu.Lock()
	c.session = &state
	c.authError = ""
	var target Mode
	switch state.Route {
	case api.RouteDashboard:
		target = ModeDashboard
	case api.RouteOnboarding:
		target = ModeOnboarding
	default:
		target = ModeLogin
	}
	c.mu.Unlock()

	if err := c.Navigate(target, ""); err != nil {
		c.log.Error().Err(err).Msg("could not open landing screen")
	}
}

// SignedOut drops the session and every subscription and moves to login
func (c *Console) SignedOut() {
	c.mu.Lock()
	c.session = nil
	c.activeTicketID = ""
	c.mode = ModeLogin
	subs := c.detachLocked()
	c.drivers, c.tickets, c.messages = nil, nil, nil
	c.standings = logic.Standings{}
	c.mu.Unlock()
	closeAll(subs)
}

// SetAuthError shows an auth failure on the login screen
func (c *Console) SetAuthError(message string) {
	c.mu.Lock()
	c.authError = message
	c.mu.Unlock()
	_ = c.Navigate(ModeLogin, "")
}

// Onboarded records the profile created from the onboarding screen and moves to the dashboard
func (c *Console) Onboarded(profile store.Profile) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	c.session.Profile = &profile
	c.session.Route = api.RouteDashboard
	c.mu.Unlock()
	return c.Navigate(ModeDashboard, "")
}

// ProfileUpdated replaces the cached profile after a settings change
func (c *Console) ProfileUpdated(profile store.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Profile = &profile
	}
}

// Navigate moves the console to a screen, starting or stopping subscriptions to match
// Preconditions: Receives the target mode and, for ticket detail, the ticket id
// Postconditions: Returns nil when the console is on the new screen, or an error and stays where it was
func (c *Console) Navigate(mode Mode, ticketID string) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	c.mu.Lock()
	if mode.NeedsData() && (c.session == nil || c.session.Profile == nil) {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	if mode == ModeOnboarding && (c.session == nil || c.session.Identity.Email == "" || c.session.Profile != nil) {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	if mode == ModeTicketDetail && ticketID == "" {
		c.mu.Unlock()
		return ErrNoTicket
	}

	c.mode = mode
	var toClose []store.Subscription
	if mode.NeedsData() {
		c.startDataLocked()
	} else {
		toClose = c.detachLocked()
	}

	if mode == ModeTicketDetail {
		if c.messageFor != ticketID {
			if c.messageSub != nil {
				toClose = append(toClose, c.messageSub)
				c.messageSub = nil
			}
			c.activeTicketID = ticketID
			c.messages = nil
			c.startMessagesLocked(ticketID)
		}
	} else {
		if c.messageSub != nil {
			toClose = append(toClose, c.messageSub)
			c.messageSub = nil
		}
		c.activeTicketID = ""
		c.messageFor = ""
		c.messages = nil
	}
	c.mu.Unlock()

	closeAll(toClose)
	return nil
}

// Mode returns the active screen
func (c *Console) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Viewer returns the signed-in viewer, false if there is none
func (c *Console) Viewer() (api.Viewer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return api.Viewer{}, false
	}
	v := c.session.Viewer()
	if v.Profile != nil {
		p := *v.Profile
		v.Profile = &p
	}
	return v, true
}

// Roster returns the current roster snapshot, nil if the roster subscription has not delivered yet
func (c *Console) Roster() []store.Driver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drivers
}

// Screen returns a snapshot of the active screen
func (c *Console) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()

	screen := Screen{Mode: c.mode, AuthError: c.authError, Role: shared.RoleGuest}
	if c.session == nil {
		return screen
	}
	identity := c.session.Identity
	screen.Identity = &identity
	screen.Role = c.session.Role
	if c.session.Profile != nil {
		p := *c.session.Profile
		screen.Profile = &p
	}
	if !c.mode.NeedsData() {
		return screen
	}

	stats := logic.StatsFor(c.drivers, identity.UID)
	screen.Stats = &stats
	screen.Standings = c.standings.Drivers
	screen.Teams = c.standings.Teams
	screen.Tickets = logic.VisibleTickets(c.tickets, identity.UID, c.session.Role)

	if c.mode == ModeTicketDetail {
		for i := range screen.Tickets {
			if screen.Tickets[i].ID == c.activeTicketID {
				t := screen.Tickets[i]
				screen.ActiveTicket = &t
				screen.Messages = c.messages
				if screen.Messages == nil {
					screen.Messages = []store.ChatMessage{}
				}
				break
			}
		}
	}
	return screen
}

// Close stops every subscription. The console cannot be used afterwards
func (c *Console) Close() {
	c.mu.Lock()
	subs := c.detachLocked()
	c.mu.Unlock()
	closeAll(subs)
	c.cancel()
}

// startDataLocked opens the roster and ticket subscriptions if they are not running. Caller holds c.mu
func (c *Console) startDataLocked() {
	gen := c.generation
	if c.rosterSub == nil {
		sub, err := c.api.Store.WatchDrivers(c.ctx, func(drivers []store.Driver) {
			standings := logic.BuildStandings(drivers, c.api.Colors)
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.generation != gen {
				return
			}
			c.drivers = drivers
			c.standings = standings
			c.api.Metrics.SubscriptionPush(store.DriversCollection(c.api.Store.GetSeason()))
		}, c.subscriptionError("drivers"))
		if err != nil {
			c.log.Error().Err(err).Msg("could not subscribe to roster")
		} else {
			c.rosterSub = sub
		}
	}
	if c.ticketSub == nil {
		sub, err := c.api.Store.WatchTickets(c.ctx, func(tickets []store.Ticket) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.generation != gen {
				return
			}
			c.tickets = tickets
			c.api.Metrics.SubscriptionPush(store.TicketsCollection)
		}, c.subscriptionError("tickets"))
		if err != nil {
			c.log.Error().Err(err).Msg("could not subscribe to tickets")
		} else {
			c.ticketSub = sub
		}
	}
}

// startMessagesLocked opens the message subscription for a ticket. Caller holds c.mu
func (c *Console) startMessagesLocked(ticketID string) {
	gen := c.generation
	c.messageFor = ticketID
	sub, err := c.api.Store.WatchMessages(c.ctx, ticketID, func(messages []store.ChatMessage) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation != gen || c.messageFor != ticketID {
			return
		}
		c.messages = messages
		c.api.Metrics.SubscriptionPush(store.MessagesCollection)
	}, c.subscriptionError("messages"))
	if err != nil {
		c.log.Error().Err(err).Str("ticket", ticketID).Msg("could not subscribe to messages")
		return
	}
	c.messageSub = sub
}

// subscriptionError logs a subscription failure. The last snapshot stays in place
func (c *Console) subscriptionError(collection string) func(error) {
	return func(err error) {
		c.log.Warn().Err(err).Str("collection", collection).Msg("subscription error, keeping last snapshot")
	}
}

// detachLocked takes every running subscription off the console so they can be closed after the lock is released.
// Caller holds c.mu
func (c *Console) detachLocked() []store.Subscription {
	var subs []store.Subscription
	for _, s := range []store.Subscription{c.rosterSub, c.ticketSub, c.messageSub} {
		if s != nil {
			subs = append(subs, s)
		}
	}
	c.rosterSub, c.ticketSub, c.messageSub = nil, nil, nil
	c.messageFor = ""
	c.generation++
	return subs
}

// closeAll closes subscriptions. It must not be called with c.mu held since Close waits for in flight pushes
func closeAll(subs []store.Subscription) {
	for _, s := range subs {
		s.Close()
	}
}
