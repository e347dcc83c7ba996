// Package identity resolves which application owns a window, remembering
// past answers for the moments when the host cannot tell.
package identity

import (
	"errors"
	"fmt"

	"hypr-windowlist/internal/host"
	"hypr-windowlist/internal/ordered"
)

// ErrIdentityUnresolved means neither the host nor the cache knows the
// window's application. Callers skip the window and retry later.
var ErrIdentityUnresolved = errors.New("window identity unresolved")

// Resolver wraps the host identity lookup with a write-through cache. The
// host may announce a window before it has assigned an application to it,
// and may briefly lose the assignment while the window is being destroyed.
type Resolver struct {
	host  host.Identity
	cache ordered.Map[host.Window, host.Application]
}

func NewResolver(id host.Identity) *Resolver {
	return &Resolver{host: id}
}

// Resolve returns the application owning w.
func (r *Resolver) Resolve(w host.Window) (host.Application, error) {
	if app, ok := r.host.WindowApp(w); ok {
		r.cache.Set(w, app)
		return app, nil
	}
	if app, ok := r.cache.Get(w); ok {
		return app, nil
	}
	return nil, fmt.Errorf("window %s: %w", w.ID(), ErrIdentityUnresolved)
}

// IsInteresting asks the host whether w deserves a button.
func (r *Resolver) IsInteresting(w host.Window) bool {
	return r.host.IsInteresting(w)
}

// Forget drops the cached application of a destroyed window.
func (r *Resolver) Forget(w host.Window) {
	r.cache.Remove(w)
}

// Len returns the number of cached windows.
func (r *Resolver) Len() int {
	return r.cache.Len()
}
