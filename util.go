package eventive

import (
	gutils "github.com/Laisky/go-utils"
	"github.com/Laisky/zap"
	"github.com/pkg/errors"

	"github.com/openbukkitutils/eventive/types"
)

// Util registers individual executors against a host manager with single
// method calls.
//
// Usage
//
//	you -> util -> manager.RegisterEvent
//
//   1. create a util with `New`
//   2. register executors with `Register`, `On` or the cancel helpers
//   3. remove everything at once with `UnregisterAll`
//
// All registrations funnel through one base method and share one listener
// handle, so UnregisterAll removes them together.
type Util struct {
	manager  Manager
	plugin   types.Plugin
	listener *types.Listener
	logger   *gutils.LoggerType

	// cond, when set, gates every executor registered through this util.
	cond func() bool
}

// UtilOptFunc options for Util
type UtilOptFunc func(*Util) error

// WithListener register under an existing listener handle
//
// default to a fresh handle per util
func WithListener(listener *types.Listener) UtilOptFunc {
	return func(u *Util) error {
		if listener == nil {
			return errors.Errorf("listener is nil")
		}

		u.listener = listener
		return nil
	}
}

// WithUtilLogger set util's logger
//
// default to gutils' internal logger
func WithUtilLogger(logger *gutils.LoggerType) UtilOptFunc {
	return func(u *Util) error {
		if logger == nil {
			return errors.Errorf("logger is nil")
		}

		u.logger = logger
		return nil
	}
}

// New create a util that registers executors for plugin against manager
func New(manager Manager, plugin types.Plugin, opts ...UtilOptFunc) (*Util, error) {
	if manager == nil {
		return nil, errors.Errorf("manager is nil")
	}
	if plugin == nil {
		return nil, errors.Errorf("plugin is nil")
	}

	u := &Util{
		manager: manager,
		plugin:  plugin,
		logger:  gutils.Logger.Named("eventive-" + gutils.RandomStringWithLength(6)),
	}
	for _, optf := range opts {
		if err := optf(u); err != nil {
			return nil, err
		}
	}

	if u.listener == nil {
		u.listener = types.NewListener(gutils.RandomStringWithLength(6))
	}

	return u, nil
}

// NewScoped is New with a condition: executors registered through the
// returned util only run while cond holds at dispatch time.
func NewScoped(manager Manager, plugin types.Plugin, cond func() bool, opts ...UtilOptFunc) (*Util, error) {
	u, err := New(manager, plugin, opts...)
	if err != nil {
		return nil, err
	}

	return u.Scoped(cond), nil
}

// Scoped returns a view of u whose registrations only fire while cond
// holds at dispatch time. The view shares u's listener and manager, so
// UnregisterAll on either removes both sets. Scoping an already scoped
// util composes the conditions.
func (u *Util) Scoped(cond func() bool) *Util {
	scoped := *u
	if prev := u.cond; prev != nil {
		scoped.cond = func() bool { return prev() && cond() }
	} else {
		scoped.cond = cond
	}

	return &scoped
}

// register is the base of all event registering used by this util. Every
// method that registers anything ends up here, which is where the scope
// condition is applied.
func (u *Util) register(name types.Name, priority types.Priority, exec Executor, ignoreCancelled bool) error {
	if exec == nil {
		return errors.Errorf("executor is nil")
	}
	if err := priority.Valid(); err != nil {
		return errors.Wrapf(err, "register %s", name)
	}

	if u.cond != nil {
		exec = When(u.cond, exec)
	}

	if err := u.manager.RegisterEvent(name, u.listener, priority, exec, u.plugin, ignoreCancelled); err != nil {
		return errors.Wrapf(err, "register %s", name)
	}

	u.logger.Debug("register executor",
		zap.String("event", name.String()),
		zap.String("priority", priority.String()))
	return nil
}

// Register register an executor for the named event
func (u *Util) Register(name types.Name, priority types.Priority, exec Executor) error {
	return u.register(name, priority, exec, false)
}

// RegisterIgnoringCancelled like Register, but the executor is skipped
// once the event has been cancelled by an earlier tier
func (u *Util) RegisterIgnoringCancelled(name types.Name, priority types.Priority, exec Executor) error {
	return u.register(name, priority, exec, true)
}

// On registers a type-specific executor for the named event. The type
// assertion is done by the wrapper, see Typed.
func On[T types.Event](u *Util, name types.Name, priority types.Priority, fn func(evt T) error) error {
	return u.Register(name, priority, Typed(fn))
}

// OnWhen like On, but fn only runs for events that pred accepts.
func OnWhen[T types.Event](u *Util, name types.Name, priority types.Priority, pred func(evt T) bool, fn func(evt T) error) error {
	return u.Register(name, priority, TypedWhen(pred, fn))
}

// ----------- cancelling events -------------

// cancellableEventName ensures that proto, which implements
// types.Cancellable, is also an event, and yields its name. This is the
// only validated failure in the package: it fails fast, there is nothing
// to retry.
func cancellableEventName(proto types.Cancellable) (types.Name, error) {
	evt, ok := proto.(types.Event)
	if !ok {
		return "", errors.Errorf("%T has to implement types.Event", proto)
	}

	return evt.EventName(), nil
}

// CancelEvent registers an executor that automatically cancels every
// occurrence of the event proto describes.
//
// Use carefully: cancels the event globally for this host.
func (u *Util) CancelEvent(proto types.Cancellable, priority types.Priority) error {
	name, err := cancellableEventName(proto)
	if err != nil {
		return err
	}

	return u.register(name, priority, Canceller(), false)
}

// CancelEvents bulk variant of CancelEvent: registers one cancelling
// executor per prototype, all at the same priority.
func (u *Util) CancelEvents(priority types.Priority, protos ...types.Cancellable) error {
	for _, proto := range protos {
		if err := u.CancelEvent(proto, priority); err != nil {
			return err
		}
	}

	return nil
}

// CancelEventWhen registers an executor that cancels the event proto
// describes only while cond holds at dispatch time.
func (u *Util) CancelEventWhen(proto types.Cancellable, cond func() bool, priority types.Priority) error {
	name, err := cancellableEventName(proto)
	if err != nil {
		return err
	}

	return u.register(name, priority, CancellerWhen(cond), false)
}

// CancelEventIf registers an executor that cancels events of type T that
// pred accepts.
func CancelEventIf[T CancellableEvent](u *Util, name types.Name, pred func(evt T) bool, priority types.Priority) error {
	return u.register(name, priority, CancellerIf(pred), false)
}

// UnregisterAll removes every executor registered through this util's
// listener, including those of scoped views sharing it.
func (u *Util) UnregisterAll() {
	u.manager.UnregisterAll(u.listener)
	u.logger.Debug("unregister all", zap.String("listener", u.listener.String()))
}

// Plugin the plugin registrations are attributed to
func (u *Util) Plugin() types.Plugin {
	return u.plugin
}

// Listener the handle all executors of this util are grouped under
func (u *Util) Listener() *types.Listener {
	return u.listener
}
