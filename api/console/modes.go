/* modes.go
 * Contains the screens a console can show
 * Authors: Zachary Bower
 */

package console

// Mode is the screen a console is showing
type Mode string

const (
	ModeLoading      Mode = "loading"
	ModeLogin        Mode = "login"
	ModeOnboarding   Mode = "onboarding"
	ModeDashboard    Mode = "dashboard"
	ModeSettings     Mode = "settings"
	ModeTickets      Mode = "tickets"
	ModeCreateTicket Mode = "create-ticket"
	ModeTicketDetail Mode = "ticket-detail"
)

// Valid reports whether m is a known screen
func (m Mode) Valid() bool {
	switch m {
	case ModeLoading, ModeLogin, ModeOnboarding, ModeDashboard, ModeSettings, ModeTickets, ModeCreateTicket, ModeTicketDetail:
		return true
	}
	return false
}

// NeedsData reports whether the screen renders roster and ticket data, and so needs the live subscriptions
func (m Mode) NeedsData() bool {
	switch m {
	case ModeDashboard, ModeSettings, ModeTickets, ModeCreateTicket, ModeTicketDetail:
		return true
	}
	return false
}
