/* onboarding.go
 * Contains the onboarding and profile settings operations
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
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Onboard creates the profile for a new identity and, best effort, its roster entry for the season
// Preconditions: Receives context, the identity and the onboarding form. The identity must have an email and no profile
// Postconditions: Returns the new Profile. A failed profile write is returned, a failed roster write is only logged
func (a *API) Onboard(ctx context.Context, identity shared.Identity, input OnboardingInput) (store.Profile, error) {
	if identity.Email == "" {
		return store.Profile{}, ErrNoEmail
	}
	name, okName := logic.CleanText(input.Name)
	steamID, okSteam := logic.CleanText(input.SteamID)
	eaID, okEA := logic.CleanText(input.EAID)
	if !okName || !okSteam || !okEA {
		return store.Profile{}, fmt.Errorf("%w: name, steam id and ea id are required", ErrInvalidInput)
	}

	// Identities that already have a profile are routed to the dashboard and never get here
	_, err := a.Store.GetProfile(ctx, identity.Email)
	if err == nil {
		return store.Profile{}, ErrProfileExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return store.Profile{}, fmt.Errorf("failed to check for existing profile: %w", err)
	}

	profile := store.Profile{
		Email:     identity.Email,
		Name:      name,
		SteamID:   steamID,
		EAID:      eaID,
		CreatedAt: a.now(),
	}
	if err := a.Store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.Profile{}, ErrProfileExists
		}
		return store.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	driver := store.Driver{
		ID:          identity.UID,
		Name:        name,
		Team:        shared.FreeAgentTeam,
		TotalPoints: 0,
		Role:        string(shared.RoleDriver),
	}
	if err := a.Store.CreateDriver(ctx, driver); err != nil {
		a.Log.Warn().Err(err).Str("uid", identity.UID).Msg("could not create roster entry during onboarding")
	}

	a.Log.Info().Str("uid", identity.UID).Msg("driver onboarded")
	return profile, nil
}

// UpdateProfile changes the platform ids on the viewer's own profile. Name and email cannot be changed
// Preconditions: Receives context, the viewer, and the new steam and ea ids
// Postconditions: Returns the updated Profile, or an error if the viewer has no profile or the write fails
func (a *API) UpdateProfile(ctx context.Context, viewer Viewer, steamID string, eaID string) (store.Profile, error) {
	profile, err := profileFor(viewer)
	if err != nil {
		return store.Profile{}, err
	}
	steamID = strings.TrimSpace(steamID)
	eaID = strings.TrimSpace(eaID)

	if err := a.Store.UpdateProfileIDs(ctx, profile.Email, steamID, eaID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Profile{}, ErrNoProfile
		}
		return store.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	profile.SteamID = steamID
	profile.EAID = eaID
	return profile, nil
}
