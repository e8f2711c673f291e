/* models.go
 * This file contain the structs and constants that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

// Role is the permission level of an identity inside the league
type Role string

const (
	RoleGuest   Role = "guest"
	RoleDriver  Role = "driver"
	RoleSteward Role = "steward"
)

// Identity is an authenticated user as reported by the identity provider
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider,omitempty"` // "password" or "oidc"
}

// SystemSenderID and SystemSenderName mark chat messages written by the workflow itself
const (
	SystemSenderID   = "system"
	SystemSenderName = "System"
	StewardName      = "Steward"
)

// FreeAgentTeam is the team given to drivers who have not been assigned to one
const FreeAgentTeam = "Free Agent"
