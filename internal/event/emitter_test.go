package event_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/vscode-testkit/internal/event"
)

type call struct {
	listener string
	payload  int
}

func TestFireDeliversInRegistrationOrder(t *testing.T) {
	em := event.NewEmitter[int]()
	defer em.Dispose()

	var calls []call
	for _, name := range []string{"first", "second", "third"} {
		em.Subscribe(func(v int) {
			calls = append(calls, call{name, v})
		})
	}

	em.Fire(42)

	assert.Equal(t, []call{{"first", 42}, {"second", 42}, {"third", 42}}, calls)
}

func TestFireSharesIdenticalPayload(t *testing.T) {
	type payload struct{ n int }
	em := event.NewEmitter[*payload]()

	p := &payload{n: 1}
	var seen []*payload
	em.Subscribe(func(v *payload) { seen = append(seen, v) })
	em.Subscribe(func(v *payload) { seen = append(seen, v) })

	em.Fire(p)

	require.Len(t, seen, 2)
	assert.Same(t, p, seen[0])
	assert.Same(t, p, seen[1])
}

func TestFireWithoutListeners(t *testing.T) {
	em := event.NewEmitter[string]()

	assert.NotPanics(t, func() { em.Fire("nobody listens") })
	assert.Equal(t, 0, em.Len())
}

func TestSameListenerRegisteredTwice(t *testing.T) {
	em := event.NewEmitter[int]()

	count := 0
	listener := func(int) { count++ }
	first := em.Subscribe(listener)
	em.Subscribe(listener)

	em.Fire(1)
	assert.Equal(t, 2, count)

	first.Dispose()
	em.Fire(2)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, em.Len())
}

func TestTwoListenersAcrossFires(t *testing.T) {
	em := event.NewEmitter[int]()

	var a, b []int
	em.Subscribe(func(v int) { a = append(a, v) })
	em.Fire(1)

	em.Subscribe(func(v int) { b = append(b, v) })
	em.Fire(2)

	assert.Equal(t, []int{1, 2}, a)
	assert.Equal(t, []int{2}, b)
}

func TestSubscriptionDisposeIsIdempotent(t *testing.T) {
	em := event.NewEmitter[int]()

	count := 0
	sub := em.Subscribe(func(int) { count++ })

	assert.NotPanics(t, func() {
		sub.Dispose()
		sub.Dispose()
		sub.Dispose()
	})

	em.Fire(1)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, em.Len())
}

func TestDisposeOnlyRemovesItsOwnEntry(t *testing.T) {
	em := event.NewEmitter[int]()

	var order []string
	em.Subscribe(func(int) { order = append(order, "a") })
	sub := em.Subscribe(func(int) { order = append(order, "b") })
	em.Subscribe(func(int) { order = append(order, "c") })

	sub.Dispose()
	sub.Dispose()
	em.Fire(0)

	assert.Equal(t, []string{"a", "c"}, order)
}

func TestListenerAddedDuringFireWaitsForNextFire(t *testing.T) {
	em := event.NewEmitter[int]()

	var late []int
	em.Subscribe(func(v int) {
		if v == 1 {
			em.Subscribe(func(v int) { late = append(late, v) })
		}
	})

	em.Fire(1)
	assert.Empty(t, late)

	em.Fire(2)
	assert.Equal(t, []int{2}, late)
}

func TestListenerRemovedDuringFireStillSeesCurrentFire(t *testing.T) {
	em := event.NewEmitter[int]()

	var got []int
	var second event.Disposable
	em.Subscribe(func(int) { second.Dispose() })
	second = em.Subscribe(func(v int) { got = append(got, v) })

	em.Fire(1)
	em.Fire(2)

	assert.Equal(t, []int{1}, got)
}

func TestListenerPanicIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	var recovered []any
	em := event.NewEmitter[int](
		event.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		event.WithPanicHandler(func(r any) { recovered = append(recovered, r) }),
	)

	var after []int
	em.Subscribe(func(int) { panic("intentional panic in listener") })
	em.Subscribe(func(v int) { after = append(after, v) })

	require.NotPanics(t, func() { em.Fire(7) })

	assert.Equal(t, []int{7}, after)
	assert.Equal(t, []any{"intentional panic in listener"}, recovered)
	assert.Contains(t, buf.String(), "listener panicked")
}

func TestEmitterDispose(t *testing.T) {
	em := event.NewEmitter[int]()

	count := 0
	sub := em.Subscribe(func(int) { count++ })
	em.Dispose()
	em.Dispose()

	em.Fire(1)
	assert.Equal(t, 0, count)

	late := em.Subscribe(func(int) { count++ })
	em.Fire(2)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, em.Len())

	assert.NotPanics(t, func() {
		sub.Dispose()
		late.Dispose()
	})
}

func TestEventSurface(t *testing.T) {
	em := event.NewEmitter[string]()
	var onDidChange event.Event[string] = em.Event()

	var got []string
	sub := onDidChange(func(s string) { got = append(got, s) })

	em.Fire("x")
	sub.Dispose()
	em.Fire("y")

	assert.Equal(t, []string{"x"}, got)
}

func TestNilListener(t *testing.T) {
	em := event.NewEmitter[int]()

	sub := em.Subscribe(nil)
	require.NotNil(t, sub)
	assert.NotPanics(t, func() {
		sub.Dispose()
		em.Fire(1)
	})
	assert.Equal(t, 0, em.Len())
}
