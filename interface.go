package eventive

import (
	"context"

	"github.com/openbukkitutils/eventive/types"
)

// Manager is the host's event-registration entry point.
//
// Every helper in this package is a thin adapter that ends up calling
// RegisterEvent; the host owns dispatch, ordering and listener bookkeeping.
type Manager interface {
	// RegisterEvent register an executor for the named event
	//
	// Args:
	//   * name: the event that triggers the executor
	//   * listener: registration handle the executor is grouped under
	//   * priority: ordering tier, see types.Priority
	//   * exec: the func that handles the event
	//   * plugin: the plugin the registration is attributed to
	//   * ignoreCancelled: if true, the executor is skipped once the
	//     event has been cancelled by an earlier tier
	//
	// you can register the same executor for different events.
	RegisterEvent(name types.Name,
		listener *types.Listener,
		priority types.Priority,
		exec Executor,
		plugin types.Plugin,
		ignoreCancelled bool) error
	// UnregisterAll remove every executor grouped under listener
	UnregisterAll(listener *types.Listener)
}

// Caller dispatches events to registered executors. Implemented by
// Dispatcher; a real host exposes its own caller.
type Caller interface {
	// Call dispatch evt synchronously on the calling goroutine
	Call(ctx context.Context, evt types.Event)
}
