package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitCallsHandlersInOrder(t *testing.T) {
	var e Emitter[string]
	var got []string

	e.Connect("title", func(s string) { got = append(got, "first:"+s) })
	e.Connect("focus", func(s string) { got = append(got, "focus:"+s) })
	e.Connect("title", func(s string) { got = append(got, "second:"+s) })

	e.Emit("title", "x")

	assert.Equal(t, []string{"first:x", "second:x"}, got)
	assert.Equal(t, 3, e.Count())
	assert.Equal(t, 2, e.CountFor("title"))
}

func TestEmitUsesSnapshot(t *testing.T) {
	var e Emitter[int]
	calls := 0

	var second HandlerID
	e.Connect("n", func(int) {
		calls++
		e.Disconnect(second)
		e.Connect("n", func(int) { calls += 100 })
	})
	second = e.Connect("n", func(int) { calls += 10 })

	e.Emit("n", 0)

	assert.Equal(t, 1, calls, "disconnected handler skipped, new handler deferred")
}

func TestDisconnectUnknown(t *testing.T) {
	var e Emitter[int]
	id := e.Connect("n", func(int) {})

	assert.True(t, e.Disconnect(id))
	assert.False(t, e.Disconnect(id))
	assert.Zero(t, e.Count())
}

func TestTrackerDisconnectAll(t *testing.T) {
	a, b := &Emitter[int]{}, &Emitter[int]{}
	tr := NewTracker[int]("group")

	tr.Connect(a, "x", func(int) {})
	tr.Connect(a, "y", func(int) {})
	tr.Connect(b, "x", func(int) {})
	require.Equal(t, 3, tr.Len())

	tr.DisconnectAll()

	assert.Zero(t, tr.Len())
	assert.Zero(t, a.Count())
	assert.Zero(t, b.Count())

	tr.DisconnectAll()
	assert.Zero(t, tr.Len())
}

func TestTrackerReleaseOnce(t *testing.T) {
	src := &Emitter[int]{}
	tr := NewTracker[int]("list")

	h := tr.Connect(src, "x", func(int) {})

	assert.True(t, tr.Release(h))
	assert.False(t, tr.Release(h))
	assert.False(t, tr.Release(Handle(42)))
	assert.Zero(t, src.Count())
}

func TestTrackerReleaseSource(t *testing.T) {
	a, b := &Emitter[int]{}, &Emitter[int]{}
	tr := NewTracker[int]("group")

	tr.Connect(a, "added", func(int) {})
	tr.Connect(a, "removed", func(int) {})
	keep := tr.Connect(b, "added", func(int) {})

	assert.Equal(t, 2, tr.ReleaseSource(a))
	assert.Zero(t, a.Count())
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, 0, tr.ReleaseSource(a))
	assert.True(t, tr.Release(keep))
	assert.Equal(t, "group", tr.Owner())
}
