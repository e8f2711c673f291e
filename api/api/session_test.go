/* session_test.go
 * Contains unit tests for session.go
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"race-control/api/shared"
	"race-control/api/store"
	"testing"
)

// region ResolveRole tests

func TestResolveRole(t *testing.T) {
	m := NewMockStore("season_1")
	m.Admins["boss@example.com"] = true
	m.StewardGrants["steward@example.com"] = true
	m.StewardGrants["revoked@example.com"] = false
	a := newTestAPI(m)

	tests := []struct {
		email string
		want  shared.Role
	}{
		{"boss@example.com", shared.RoleSteward},
		{"steward@example.com", shared.RoleSteward},
		{"revoked@example.com", shared.RoleDriver},
		{"driver@example.com", shared.RoleDriver},
	}
	for _, tt := range tests {
		if got := a.ResolveRole(context.TODO(), tt.email); got != tt.want {
			t.Errorf("ResolveRole(%s) = %s, want %s", tt.email, got, tt.want)
		}
	}
}

func TestResolveRole_AdminLookupFailsFallsThroughToGrant(t *testing.T) {
	m := NewMockStore("season_1")
	m.IsAdminError = errors.New("permission denied")
	m.StewardGrants["steward@example.com"] = true
	a := newTestAPI(m)

	if got := a.ResolveRole(context.TODO(), "steward@example.com"); got != shared.RoleSteward {
		t.Errorf("Expected steward from grant record, got %s", got)
	}
}

func TestResolveRole_BothLookupsFail(t *testing.T) {
	m := NewMockStore("season_1")
	m.IsAdminError = errors.New("permission denied")
	m.IsStewardGrantedError = errors.New("permission denied")
	a := newTestAPI(m)

	if got := a.ResolveRole(context.TODO(), "boss@example.com"); got != shared.RoleDriver {
		t.Errorf("Expected failed lookups to count as not granted, got %s", got)
	}
}

// endregion

// region ResolveSession tests

func TestResolveSession_NoEmailRoutesToLogin(t *testing.T) {
	a := newTestAPI(NewMockStore("season_1"))

	state := a.ResolveSession(context.TODO(), shared.Identity{UID: "uid1"})
	if state.Route != RouteLogin {
		t.Errorf("Expected login route, got %s", state.Route)
	}
	if state.Role != shared.RoleGuest {
		t.Errorf("Expected guest role, got %s", state.Role)
	}
}

func TestResolveSession_NoProfileRoutesToOnboarding(t *testing.T) {
	a := newTestAPI(NewMockStore("season_1"))

	state := a.ResolveSession(context.TODO(), shared.Identity{UID: "uid1", Email: "new@example.com"})
	if state.Route != RouteOnboarding {
		t.Errorf("Expected onboarding route, got %s", state.Route)
	}
	if state.Profile != nil {
		t.Error("Expected no profile")
	}
	if state.Role != shared.RoleDriver {
		t.Errorf("Expected driver role, got %s", state.Role)
	}
}

func TestResolveSession_ExistingProfileRoutesToDashboard(t *testing.T) {
	m := NewMockStore("season_1")
	m.Profiles["max@example.com"] = store.Profile{Email: "max@example.com", Name: "Max"}
	m.Admins["max@example.com"] = true
	a := newTestAPI(m)

	state := a.ResolveSession(context.TODO(), shared.Identity{UID: "uid1", Email: "max@example.com"})
	if state.Route != RouteDashboard {
		t.Errorf("Expected dashboard route, got %s", state.Route)
	}
	if state.Profile == nil || state.Profile.Name != "Max" {
		t.Errorf("Expected profile to be loaded, got %+v", state.Profile)
	}
	if state.Role != shared.RoleSteward {
		t.Errorf("Expected steward role, got %s", state.Role)
	}

	viewer := state.Viewer()
	if viewer.Identity.UID != "uid1" || viewer.Role != shared.RoleSteward || viewer.Profile == nil {
		t.Errorf("Unexpected viewer %+v", viewer)
	}
}

func TestResolveSession_ProfileErrorRoutesToLogin(t *testing.T) {
	m := NewMockStore("season_1")
	m.GetProfileError = errors.New("connection refused")
	a := newTestAPI(m)

	state := a.ResolveSession(context.TODO(), shared.Identity{UID: "uid1", Email: "max@example.com"})
	if state.Route != RouteLogin {
		t.Errorf("Expected login route, got %s", state.Route)
	}
}

// endregion
