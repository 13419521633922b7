// Package types holds the shared vocabulary between the host's event
// manager and the registration helpers: event names, priorities,
// cancellation state and registration handles.
package types

import "time"

// Name identifies an event kind, e.g. "player.join".
type Name string

func (n Name) String() string {
	return string(n)
}

// Event is implemented by every host event.
type Event interface {
	EventName() Name
}

// Cancellable is the capability of events whose default effect can be
// suppressed by an executor.
type Cancellable interface {
	Cancelled() bool
	SetCancelled(cancelled bool)
}

// Cancel is an embeddable cancellation state that satisfies Cancellable.
//
//	type BlockPlaceEvent struct {
//	    types.Cancel
//	    Pos [3]int
//	}
type Cancel struct {
	cancelled bool
}

func (c *Cancel) Cancelled() bool {
	return c.cancelled
}

func (c *Cancel) SetCancelled(cancelled bool) {
	c.cancelled = cancelled
}

// MetaKey key of an event's meta
type MetaKey string

func (k MetaKey) String() string {
	return string(k)
}

// Meta free-form event payload carried across the bridge
type Meta map[MetaKey]interface{}

// Record is the serializable snapshot of a dispatched event. It is what
// travels through a bridge backend.
type Record struct {
	Name Name      `json:"name"`
	Time time.Time `json:"time"`
	Meta Meta      `json:"meta,omitempty"`
}

// MetaProvider is implemented by events that want their payload mirrored
// into the Record a bridge carries.
type MetaProvider interface {
	EventMeta() Meta
}

// RemoteEvent wraps a Record received from a bridge backend so it can be
// dispatched like any local event. Remote events are never mirrored back
// out, which keeps two bridged hosts from ping-ponging the same record.
type RemoteEvent struct {
	Record *Record
}

func (e *RemoteEvent) EventName() Name {
	return e.Record.Name
}

func (e *RemoteEvent) EventMeta() Meta {
	return e.Record.Meta
}
