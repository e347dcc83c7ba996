package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypr-windowlist/internal/host/hosttest"
)

func TestResolveWritesThrough(t *testing.T) {
	h := hosttest.New(1)
	app := h.NewApp("firefox", "Firefox")
	w := h.OpenWindow(h.Workspace(0), app)
	r := NewResolver(h)

	got, err := r.Resolve(w)
	require.NoError(t, err)
	assert.Equal(t, app, got)
	assert.Equal(t, 1, r.Len())

	h.Unresolve(w)
	got, err = r.Resolve(w)
	require.NoError(t, err, "cache answers while the host cannot")
	assert.Equal(t, app, got)
}

func TestResolveUnknownWindow(t *testing.T) {
	h := hosttest.New(1)
	w := h.OpenWindow(h.Workspace(0), h.NewApp("kitty", "Kitty"), hosttest.Unresolved())
	r := NewResolver(h)

	_, err := r.Resolve(w)
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
	assert.Zero(t, r.Len())

	h.Resolve(w)
	_, err = r.Resolve(w)
	assert.NoError(t, err)
}

func TestForget(t *testing.T) {
	h := hosttest.New(1)
	w := h.OpenWindow(h.Workspace(0), h.NewApp("kitty", "Kitty"))
	r := NewResolver(h)

	_, err := r.Resolve(w)
	require.NoError(t, err)

	r.Forget(w)
	h.Unresolve(w)

	_, err = r.Resolve(w)
	assert.ErrorIs(t, err, ErrIdentityUnresolved)
}

func TestIsInterestingDelegates(t *testing.T) {
	h := hosttest.New(1)
	app := h.NewApp("kitty", "Kitty")
	shown := h.OpenWindow(h.Workspace(0), app)
	hidden := h.OpenWindow(h.Workspace(0), app, hosttest.Uninteresting())
	r := NewResolver(h)

	assert.True(t, r.IsInteresting(shown))
	assert.False(t, r.IsInteresting(hidden))
}
