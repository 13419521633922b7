package eventive

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openbukkitutils/eventive/bridge"
	"github.com/openbukkitutils/eventive/types"
)

const (
	testJoin types.Name = "player.join"
	testChat types.Name = "player.chat"
)

type joinEvent struct {
	player string
}

func (e *joinEvent) EventName() types.Name { return testJoin }

type chatEvent struct {
	types.Cancel
	player  string
	message string
}

func (e *chatEvent) EventName() types.Name { return testChat }

func (e *chatEvent) EventMeta() types.Meta {
	return types.Meta{
		"player":  e.player,
		"message": e.message,
	}
}

type testPlugin string

func (p testPlugin) Name() string { return string(p) }

func TestDispatcherPriorityOrder(t *testing.T) {
	ctx := context.Background()
	dispatcher, err := NewDispatcher(ctx)
	require.NoError(t, err)

	listener := types.NewListener("t")
	var got []string
	record := func(tag string) Executor {
		return func(evt types.Event) error {
			got = append(got, tag)
			return nil
		}
	}

	// registered out of order on purpose
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityMonitor, record("monitor"), testPlugin("a"), false))
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityLowest, record("lowest"), testPlugin("a"), false))
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, record("normal-1"), testPlugin("b"), false))
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, record("normal-2"), testPlugin("b"), false))

	dispatcher.Call(ctx, &joinEvent{player: "steve"})
	require.Equal(t, []string{"lowest", "normal-1", "normal-2", "monitor"}, got)
}

func TestDispatcherRegisterValidation(t *testing.T) {
	ctx := context.Background()
	dispatcher, err := NewDispatcher(ctx)
	require.NoError(t, err)

	listener := types.NewListener("t")
	noop := func(evt types.Event) error { return nil }

	require.Error(t, dispatcher.RegisterEvent(testJoin, nil, types.PriorityNormal, noop, testPlugin("a"), false))
	require.Error(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, nil, testPlugin("a"), false))
	require.Error(t, dispatcher.RegisterEvent(testJoin, listener, types.Priority(42), noop, testPlugin("a"), false))
}

func TestDispatcherIgnoreCancelled(t *testing.T) {
	ctx := context.Background()
	dispatcher, err := NewDispatcher(ctx)
	require.NoError(t, err)

	listener := types.NewListener("t")
	require.NoError(t, dispatcher.RegisterEvent(testChat, listener, types.PriorityLow, Canceller(), testPlugin("a"), false))

	var filtered, unfiltered int32
	require.NoError(t, dispatcher.RegisterEvent(testChat, listener, types.PriorityNormal, func(evt types.Event) error {
		atomic.AddInt32(&filtered, 1)
		return nil
	}, testPlugin("a"), true))
	require.NoError(t, dispatcher.RegisterEvent(testChat, listener, types.PriorityMonitor, func(evt types.Event) error {
		atomic.AddInt32(&unfiltered, 1)
		return nil
	}, testPlugin("a"), false))

	evt := &chatEvent{player: "steve", message: "hi"}
	dispatcher.Call(ctx, evt)

	require.True(t, evt.Cancelled())
	require.Equal(t, 0, int(atomic.LoadInt32(&filtered)))
	require.Equal(t, 1, int(atomic.LoadInt32(&unfiltered)))
}

func TestDispatcherUnregisterAll(t *testing.T) {
	ctx := context.Background()
	dispatcher, err := NewDispatcher(ctx)
	require.NoError(t, err)

	var count1, count2 int32
	listener1 := types.NewListener("l1")
	listener2 := types.NewListener("l2")
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener1, types.PriorityNormal, func(evt types.Event) error {
		atomic.AddInt32(&count1, 1)
		return nil
	}, testPlugin("a"), false))
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener2, types.PriorityNormal, func(evt types.Event) error {
		atomic.AddInt32(&count2, 1)
		return nil
	}, testPlugin("b"), false))

	dispatcher.Call(ctx, &joinEvent{player: "steve"})
	dispatcher.UnregisterAll(listener1)
	dispatcher.Call(ctx, &joinEvent{player: "alex"})

	require.Equal(t, 1, int(atomic.LoadInt32(&count1)))
	require.Equal(t, 2, int(atomic.LoadInt32(&count2)))
}

func TestDispatcherSuppressPanic(t *testing.T) {
	ctx := context.Background()

	boom := func(evt types.Event) error { panic("boom") }

	t.Run("suppressed", func(t *testing.T) {
		dispatcher, err := NewDispatcher(ctx, WithSuppressPanic(true))
		require.NoError(t, err)

		listener := types.NewListener("t")
		var count int32
		require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityLow, boom, testPlugin("a"), false))
		require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, func(evt types.Event) error {
			atomic.AddInt32(&count, 1)
			return nil
		}, testPlugin("a"), false))

		require.NotPanics(t, func() {
			dispatcher.Call(ctx, &joinEvent{player: "steve"})
		})
		require.Equal(t, 1, int(atomic.LoadInt32(&count)))
	})

	t.Run("raised", func(t *testing.T) {
		dispatcher, err := NewDispatcher(ctx)
		require.NoError(t, err)

		listener := types.NewListener("t")
		require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityLow, boom, testPlugin("a"), false))
		require.Panics(t, func() {
			dispatcher.Call(ctx, &joinEvent{player: "steve"})
		})
	})
}

func TestDispatcherBridge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := bridge.WithMock()
	require.NoError(t, err)

	dispatcher, err := NewDispatcher(ctx, WithBridge(backend))
	require.NoError(t, err)

	// with a shared backend the mirrored record loops straight back in,
	// so one local call yields one local event plus one remote event.
	var local, remote int32
	listener := types.NewListener("t")
	require.NoError(t, dispatcher.RegisterEvent(testChat, listener, types.PriorityNormal, Typed(func(evt *chatEvent) error {
		atomic.AddInt32(&local, 1)
		return nil
	}), testPlugin("a"), false))
	require.NoError(t, dispatcher.RegisterEvent(testChat, listener, types.PriorityNormal, Typed(func(evt *types.RemoteEvent) error {
		if evt.EventName() == testChat && evt.Record.Meta["player"] == "steve" {
			atomic.AddInt32(&remote, 1)
		}
		return nil
	}), testPlugin("a"), false))

	dispatcher.Call(ctx, &chatEvent{player: "steve", message: "hi"})

	require.Equal(t, 1, int(atomic.LoadInt32(&local)))
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&remote) == 1
	}, time.Second, 10*time.Millisecond)

	// remote events must not be mirrored back out again
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, int(atomic.LoadInt32(&remote)))
	require.Equal(t, 1, int(atomic.LoadInt32(&local)))
}

func TestDispatcherBridgeRemoveListener(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := bridge.WithMock()
	require.NoError(t, err)

	dispatcher, err := NewDispatcher(ctx, WithBridge(backend))
	require.NoError(t, err)

	var remote int32
	listener := types.NewListener("t")
	require.NoError(t, dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, Typed(func(evt *types.RemoteEvent) error {
		atomic.AddInt32(&remote, 1)
		return nil
	}), testPlugin("a"), false))

	require.NoError(t, backend.Put(ctx, &types.Record{Name: testJoin}))
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&remote) == 1
	}, time.Second, 10*time.Millisecond)

	// removing the last listener for the name stops the inbound pump
	dispatcher.UnregisterAll(listener)
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, backend.Put(ctx, &types.Record{Name: testJoin}))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, int(atomic.LoadInt32(&remote)))

	// the record is still queued in the backend, nobody consumed it
	recordChan, _ := backend.Get(ctx, testJoin)
	select {
	case record := <-recordChan:
		require.Equal(t, testJoin, record.Name)
	default:
		t.Fatal("record should still be queued")
	}
}

func TestDispatcherBridgeRegisterAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	backend, err := bridge.WithMock()
	require.NoError(t, err)

	dispatcher, err := NewDispatcher(ctx, WithBridge(backend))
	require.NoError(t, err)

	cancel()

	// registration must not block on the stopped bridge listener loop
	done := make(chan struct{})
	go func() {
		defer close(done)

		listener := types.NewListener("t")
		_ = dispatcher.RegisterEvent(testJoin, listener, types.PriorityNormal, func(evt types.Event) error {
			return nil
		}, testPlugin("a"), false)
		dispatcher.UnregisterAll(listener)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked after dispatcher context cancellation")
	}
}
