/* session.go
 * Contains the session resolver. It works out the role of a signed-in identity and which screen it should land on
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"race-control/api/shared"
	"race-control/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// ResolveRole works out the role of an identity from the permission records. A lookup that fails counts as not granted
// Preconditions: Receives context and the identity's email
// Postconditions: Returns RoleSteward if the Admin or Driver_permissions record grants it, RoleDriver otherwise
func (a *API) ResolveRole(ctx context.Context, email string) shared.Role {
	admin, err := a.Store.IsAdmin(ctx, email)
	if err != nil {
		a.Log.Warn().Err(err).Str("email", email).Msg("admin lookup failed, treating as not granted")
	}
	if admin {
		return shared.RoleSteward
	}

	steward, err := a.Store.IsStewardGranted(ctx, email)
	if err != nil {
		a.Log.Warn().Err(err).Str("email", email).Msg("steward lookup failed, treating as not granted")
	}
	if steward {
		return shared.RoleSteward
	}
	return shared.RoleDriver
}

// ResolveSession resolves a signed-in identity
// Preconditions: Receives context and the identity from the identity provider
// Postconditions: Returns the SessionState. Identities without an email route to login, identities without a profile
// route to onboarding, identities with a profile route to the dashboard and any other failure routes to login
func (a *API) ResolveSession(ctx context.Context, identity shared.Identity) SessionState {
	state := SessionState{Identity: identity, Role: shared.RoleGuest, Route: RouteLogin}
	if identity.Email == "" {
		return state
	}

	state.Role = a.ResolveRole(ctx, identity.Email)

	profile, err := a.Store.GetProfile(ctx, identity.Email)
	switch {
	case err == nil:
		state.Profile = &profile
		state.Route = RouteDashboard
	case errors.Is(err, mongo.ErrNoDocuments):
		state.Route = RouteOnboarding
	default:
		a.Log.Error().Err(err).Str("uid", identity.UID).Msg("profile lookup failed")
		state.Route = RouteLogin
	}
	return state
}

// profileFor returns the viewer's profile or ErrNoProfile
func profileFor(viewer Viewer) (store.Profile, error) {
	if viewer.Profile == nil {
		return store.Profile{}, ErrNoProfile
	}
	return *viewer.Profile, nil
}
