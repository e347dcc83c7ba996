package signals

import "slices"

// Handle is returned by Tracker.Connect and released exactly once.
type Handle uint64

type subscription[T any] struct {
	handle Handle
	source Source[T]
	name   string
	id     HandlerID
}

// Tracker records the subscriptions made on behalf of one owner so they can
// be disconnected together when the owner is destroyed.
type Tracker[T any] struct {
	owner string
	next  Handle
	subs  []subscription[T]
}

// NewTracker creates a Tracker labelled owner.
func NewTracker[T any](owner string) *Tracker[T] {
	return &Tracker[T]{owner: owner}
}

func (t *Tracker[T]) Owner() string {
	return t.owner
}

// Connect subscribes fn to name on src and records the subscription.
func (t *Tracker[T]) Connect(src Source[T], name string, fn func(T)) Handle {
	id := src.Connect(name, fn)
	t.next++
	t.subs = append(t.subs, subscription[T]{handle: t.next, source: src, name: name, id: id})
	return t.next
}

// Release disconnects one subscription. Unknown or already released handles
// report false.
func (t *Tracker[T]) Release(h Handle) bool {
	i := slices.IndexFunc(t.subs, func(s subscription[T]) bool { return s.handle == h })
	if i < 0 {
		return false
	}
	s := t.subs[i]
	t.subs = slices.Delete(t.subs, i, i+1)
	s.source.Disconnect(s.id)
	return true
}

// ReleaseAll disconnects a set of handles, ignoring ones already gone.
func (t *Tracker[T]) ReleaseAll(handles []Handle) {
	for _, h := range handles {
		t.Release(h)
	}
}

// ReleaseSource disconnects every subscription made on src and returns how
// many there were.
func (t *Tracker[T]) ReleaseSource(src Source[T]) int {
	var keep, drop []subscription[T]
	for _, s := range t.subs {
		if s.source == src {
			drop = append(drop, s)
		} else {
			keep = append(keep, s)
		}
	}
	t.subs = keep
	for _, s := range drop {
		s.source.Disconnect(s.id)
	}
	return len(drop)
}

// DisconnectAll releases every recorded subscription.
func (t *Tracker[T]) DisconnectAll() {
	subs := t.subs
	t.subs = nil
	for _, s := range subs {
		s.source.Disconnect(s.id)
	}
}

// Len returns the number of live subscriptions.
func (t *Tracker[T]) Len() int {
	return len(t.subs)
}
