package eventive

import "github.com/openbukkitutils/eventive/types"

// Executor is invoked when an event it was registered for is dispatched.
//
// Executors run synchronously on the host's dispatch goroutine. A returned
// error is logged by the host and does not stop propagation to later tiers.
type Executor func(evt types.Event) error

// CancellableEvent constrains typed cancel helpers to events that can
// actually be cancelled.
type CancellableEvent interface {
	types.Event
	types.Cancellable
}

// Typed adapts a type-specific executor body to the Executor the manager
// expects. Events of any other dynamic type are ignored, so callers never
// assert the event type themselves.
//
// Instead of
//
//	util.Register(blockPlace, types.PriorityNormal, func(evt types.Event) error {
//	    if placed, ok := evt.(*BlockPlaceEvent); ok {
//	        broadcast(placed.Pos)
//	    }
//	    return nil
//	})
//
// you can do
//
//	util.Register(blockPlace, types.PriorityNormal, eventive.Typed(func(evt *BlockPlaceEvent) error {
//	    broadcast(evt.Pos)
//	    return nil
//	}))
func Typed[T types.Event](fn func(evt T) error) Executor {
	return func(evt types.Event) error {
		if typed, ok := evt.(T); ok {
			return fn(typed)
		}

		return nil
	}
}

// When wraps exec so it only runs while cond holds at dispatch time.
func When(cond func() bool, exec Executor) Executor {
	return func(evt types.Event) error {
		if !cond() {
			return nil
		}

		return exec(evt)
	}
}

// TypedWhen is the predicate variant of Typed: fn only runs for events of
// type T that pred accepts.
func TypedWhen[T types.Event](pred func(evt T) bool, fn func(evt T) error) Executor {
	return Typed(func(evt T) error {
		if !pred(evt) {
			return nil
		}

		return fn(evt)
	})
}

// Canceller returns an executor that cancels every cancellable event it
// sees. Events without cancellation state pass through untouched.
func Canceller() Executor {
	return func(evt types.Event) error {
		if cancellable, ok := evt.(types.Cancellable); ok {
			cancellable.SetCancelled(true)
		}

		return nil
	}
}

// CancellerWhen cancels only while cond holds at dispatch time.
func CancellerWhen(cond func() bool) Executor {
	return When(cond, Canceller())
}

// CancellerIf cancels events of type T that pred accepts.
func CancellerIf[T CancellableEvent](pred func(evt T) bool) Executor {
	return TypedWhen(pred, func(evt T) error {
		evt.SetCancelled(true)
		return nil
	})
}
