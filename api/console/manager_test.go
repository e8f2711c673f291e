/* manager_test.go
 * Contains unit tests for manager.go
 * Authors: Zachary Bower
 */

package console

import (
	"context"
	"race-control/api/api"
	"race-control/api/auth"
	"race-control/api/store"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() (*Manager, *api.MockStore) {
	m := api.NewMockStore("season_1")
	m.Profiles["max@example.com"] = store.Profile{Email: "max@example.com", Name: "Max"}
	return NewManager(api.New(m, zerolog.Nop()), zerolog.Nop()), m
}

func TestManager_SignInEvent(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()

	identity := driverIdentity()
	mgr.HandleSessionEvent(auth.SessionEvent{SessionID: "s1", Identity: &identity})

	c, ok := mgr.Get("s1")
	require.True(t, ok)
	assert.Equal(t, ModeDashboard, c.Mode())
	assert.Len(t, m.DriverWatchers, 1)
	assert.Equal(t, 1, mgr.Len())
}

func TestManager_SignOutEvent(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()

	identity := driverIdentity()
	mgr.HandleSessionEvent(auth.SessionEvent{SessionID: "s1", Identity: &identity})
	mgr.HandleSessionEvent(auth.SessionEvent{SessionID: "s1"})

	_, ok := mgr.Get("s1")
	assert.False(t, ok)
	assert.True(t, m.LatestDriverWatch().Closed())
	assert.Equal(t, 0, mgr.Len())
}

func TestManager_EnsureReusesConsole(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()

	first := mgr.Ensure(context.TODO(), "s1", driverIdentity())
	second := mgr.Ensure(context.TODO(), "s1", driverIdentity())
	assert.Same(t, first, second)
	assert.Len(t, m.DriverWatchers, 1)
}

func TestManager_ConcurrentEnsureWaitsForSignIn(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()
	gate := make(chan struct{})
	m.GetProfileGate = gate

	first := make(chan *Console, 1)
	go func() { first <- mgr.Ensure(context.TODO(), "s1", driverIdentity()) }()
	require.Eventually(t, func() bool { return mgr.Len() == 1 }, time.Second, time.Millisecond)

	second := make(chan *Console, 1)
	go func() { second <- mgr.Ensure(context.TODO(), "s1", driverIdentity()) }()

	select {
	case <-second:
		t.Fatal("second Ensure returned before the session was resolved")
	case <-time.After(50 * time.Millisecond):
	}
	close(gate)

	c := <-second
	assert.Same(t, c, <-first)
	_, ok := c.Viewer()
	assert.True(t, ok)
	assert.Equal(t, ModeDashboard, c.Mode())
	assert.Len(t, m.DriverWatchers, 1)
}

func TestManager_EnsureWaitHonoursContext(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()
	gate := make(chan struct{})
	m.GetProfileGate = gate

	done := make(chan struct{})
	go func() {
		mgr.Ensure(context.TODO(), "s1", driverIdentity())
		close(done)
	}()
	require.Eventually(t, func() bool { return mgr.Len() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := mgr.Ensure(ctx, "s1", driverIdentity())
	assert.Equal(t, ModeLoading, c.Mode())

	close(gate)
	<-done
	assert.Equal(t, ModeDashboard, c.Mode())
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	mgr, m := newTestManager()
	defer mgr.Close()

	a := mgr.Ensure(context.TODO(), "s1", driverIdentity())
	b := mgr.Ensure(context.TODO(), "s2", driverIdentity())
	require.NoError(t, a.Navigate(ModeLogin, ""))

	assert.Equal(t, ModeLogin, a.Mode())
	assert.Equal(t, ModeDashboard, b.Mode())
	assert.Len(t, m.DriverWatchers, 2)
	assert.False(t, m.LatestDriverWatch().Closed())
}

func TestManager_DropUnknownSession(t *testing.T) {
	mgr, _ := newTestManager()
	mgr.Drop("missing")
	assert.Equal(t, 0, mgr.Len())
}
