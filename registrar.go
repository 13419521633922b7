package eventive

import (
	"github.com/pkg/errors"

	"github.com/openbukkitutils/eventive/types"
)

// Registrar is implemented by listener objects that bundle their own event
// registrations.
//
//	type chatGuard struct{}
//
//	func (g *chatGuard) RegisterEvents(u *eventive.Util) error {
//	    return eventive.On(u, playerChat, types.PriorityHigh, g.onChat)
//	}
//
// Attach by calling `eventive.Attach(manager, plugin, &chatGuard{})`.
type Registrar interface {
	RegisterEvents(u *Util) error
}

// Attach creates a util for r and lets it register its executors. Detach
// by calling UnregisterAll on the returned util.
//
// If r fails halfway, everything it registered so far is removed again.
func Attach(manager Manager, plugin types.Plugin, r Registrar, opts ...UtilOptFunc) (*Util, error) {
	u, err := New(manager, plugin, opts...)
	if err != nil {
		return nil, err
	}

	if err := r.RegisterEvents(u); err != nil {
		u.UnregisterAll()
		return nil, errors.Wrap(err, "register events")
	}

	return u, nil
}
