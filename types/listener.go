package types

import "errors"

// Plugin is the host-side handle registrations are attributed to.
type Plugin interface {
	Name() string
}

// Listener is an opaque registration handle. It carries no behaviour;
// the manager groups registrations by listener so they can be removed
// together. Identity is pointer identity.
type Listener struct {
	id string
}

// NewListener creates a fresh registration handle.
func NewListener(id string) *Listener {
	return &Listener{id: id}
}

func (l *Listener) String() string {
	return l.id
}

// ExecutorID id(name) of an executor
//
//	first character of ExecutorID should not be `@`,
//	ids starting with `@` are reserved for internal executors.
type ExecutorID string

func (h ExecutorID) String() string {
	return string(h)
}

// Valid parse string to executor id with validation
func (h ExecutorID) Valid() error {
	if len(h) == 0 {
		return errors.New("executor id is empty")
	}

	if h[0] == '@' {
		return errors.New("first character of executor id should not be `@`")
	}

	return nil
}
