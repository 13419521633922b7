package eventive

import (
	"context"
	"sort"
	"sync"
	"time"

	gutils "github.com/Laisky/go-utils"
	"github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
	"github.com/pkg/errors"

	"github.com/openbukkitutils/eventive/bridge"
	"github.com/openbukkitutils/eventive/types"
)

const bridgePutTimeout = 10 * time.Second

// Dispatcher is an in-process event manager.
//
// A real host brings its own Manager; the dispatcher exists for tests,
// examples and embedded hosts. Dispatch is synchronous on the calling
// goroutine: executors run from types.PriorityLowest up to
// types.PriorityMonitor, in registration order within one tier.
type Dispatcher struct {
	*dispatcherOpt

	// ctx bounds the bridge listeners; once it is done, bridge signals
	// are dropped instead of sent so registration never blocks on the
	// stopped listener loop.
	ctx context.Context

	mu sync.Mutex
	// name2regs holds registrations per event name, kept sorted by tier.
	name2regs map[types.Name][]*registration
	seq       uint64

	// -------------------------------------
	// bridge
	// -------------------------------------

	bridgeAddName     chan types.Name
	bridgeRemoveName  chan types.Name
	bridgeName2Cancel map[types.Name]context.CancelFunc
}

var _ Manager = new(Dispatcher)
var _ Caller = new(Dispatcher)

type dispatcherOpt struct {
	logger        *gutils.LoggerType
	suppressPanic bool
	bridge        bridge.Interface
}

// DispatcherOptFunc options for Dispatcher
type DispatcherOptFunc func(*dispatcherOpt) error

// WithLogger set dispatcher's logger
//
// default to gutils' internal logger
func WithLogger(logger *gutils.LoggerType) DispatcherOptFunc {
	return func(opt *dispatcherOpt) error {
		if logger == nil {
			return errors.Errorf("logger is nil")
		}

		opt.logger = logger
		return nil
	}
}

// WithSuppressPanic set whether suppress executor's panic
//
// default to false
func WithSuppressPanic(suppressPanic bool) DispatcherOptFunc {
	return func(opt *dispatcherOpt) error {
		opt.suppressPanic = suppressPanic
		return nil
	}
}

// WithBridge mirror dispatched events into b and pump inbound records
// back in as *types.RemoteEvent
//
// default to null
func WithBridge(b bridge.Interface) DispatcherOptFunc {
	return func(opt *dispatcherOpt) error {
		if b == nil {
			return errors.Errorf("bridge is nil")
		}

		opt.bridge = b
		return nil
	}
}

// NewDispatcher new in-process event manager
//
// Args:
//   - ctx: bounds the bridge listeners, if any
//   - WithLogger: internal logger
//   - WithSuppressPanic: if true, will not raise panic when running an executor
//   - WithBridge: bridge backend for cross-host events
func NewDispatcher(ctx context.Context, opts ...DispatcherOptFunc) (*Dispatcher, error) {
	opt := &dispatcherOpt{
		logger: gutils.Logger.Named("eventive-" + gutils.RandomStringWithLength(6)),
	}
	for _, optf := range opts {
		if err := optf(opt); err != nil {
			return nil, err
		}
	}

	d := &Dispatcher{
		dispatcherOpt: opt,
		ctx:           ctx,
		name2regs:     map[types.Name][]*registration{},

		bridgeAddName:     make(chan types.Name),
		bridgeRemoveName:  make(chan types.Name),
		bridgeName2Cancel: map[types.Name]context.CancelFunc{},
	}

	go d.runBridgeListener(ctx)

	var fields []zapcore.Field
	if d.bridge != nil {
		fields = append(fields, zap.String("bridge", d.bridge.Name()))
	}
	d.logger.Info("new dispatcher", fields...)
	return d, nil
}

type registration struct {
	listener        *types.Listener
	plugin          string
	priority        types.Priority
	seq             uint64
	exec            Executor
	execID          types.ExecutorID
	ignoreCancelled bool
}

// RegisterEvent register an executor, see Manager
func (d *Dispatcher) RegisterEvent(name types.Name,
	listener *types.Listener,
	priority types.Priority,
	exec Executor,
	plugin types.Plugin,
	ignoreCancelled bool) error {
	if listener == nil {
		return errors.Errorf("listener is nil")
	}
	if exec == nil {
		return errors.Errorf("executor is nil")
	}
	if err := priority.Valid(); err != nil {
		return errors.Wrapf(err, "register %s", name)
	}

	var pluginName string
	if plugin != nil {
		pluginName = plugin.Name()
	}

	execID := GetExecutorID(exec)

	d.mu.Lock()
	d.seq++
	regs := append(d.name2regs[name], &registration{
		listener:        listener,
		plugin:          pluginName,
		priority:        priority,
		seq:             d.seq,
		exec:            exec,
		execID:          execID,
		ignoreCancelled: ignoreCancelled,
	})
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}

		return regs[i].seq < regs[j].seq
	})
	d.name2regs[name] = regs
	d.mu.Unlock()

	if d.bridge != nil {
		select {
		case d.bridgeAddName <- name:
		case <-d.ctx.Done():
		}
	}

	d.logger.Info("register executor",
		zap.String("event", name.String()),
		zap.String("plugin", pluginName),
		zap.String("priority", priority.String()),
		zap.String("executor", execID.String()))
	return nil
}

// UnregisterAll remove every executor grouped under listener
func (d *Dispatcher) UnregisterAll(listener *types.Listener) {
	if listener == nil {
		return
	}

	var emptied []types.Name
	d.mu.Lock()
	for name, regs := range d.name2regs {
		kept := regs[:0]
		for _, reg := range regs {
			if reg.listener == listener {
				continue
			}
			kept = append(kept, reg)
		}

		if len(kept) == 0 {
			delete(d.name2regs, name)
			emptied = append(emptied, name)
		} else {
			d.name2regs[name] = kept
		}
	}
	d.mu.Unlock()

	if d.bridge != nil {
		for _, name := range emptied {
			select {
			case d.bridgeRemoveName <- name:
			case <-d.ctx.Done():
			}
		}
	}

	d.logger.Info("unregister listener", zap.String("listener", listener.String()))
}

func runExecutorWithoutPanic(exec Executor, evt types.Event) (err error) {
	defer func() {
		if erri := recover(); erri != nil {
			err = errors.Errorf("run executor with evt `%s`: %+v", evt.EventName(), erri)
		}
	}()

	err = exec(evt)
	return err
}

// Call dispatch evt synchronously on the calling goroutine.
//
// Executors that returned an error are logged, propagation continues.
// Cancelling an event does not stop propagation either; executors
// registered with ignoreCancelled are skipped once it is cancelled, so
// monitor tiers still observe the final state.
func (d *Dispatcher) Call(ctx context.Context, evt types.Event) {
	if evt == nil {
		return
	}

	name := evt.EventName()
	d.logger.Debug("call event", zap.String("event", name.String()))

	d.mu.Lock()
	var regs []*registration
	if rs := d.name2regs[name]; len(rs) != 0 {
		regs = make([]*registration, len(rs))
		copy(regs, rs)
	}
	d.mu.Unlock()

	cancellable, _ := evt.(types.Cancellable)
	for _, reg := range regs {
		if reg.ignoreCancelled && cancellable != nil && cancellable.Cancelled() {
			continue
		}

		var err error
		if d.suppressPanic {
			err = runExecutorWithoutPanic(reg.exec, evt)
		} else {
			err = reg.exec(evt)
		}

		if err != nil {
			d.logger.Error("run executor",
				zap.String("event", name.String()),
				zap.String("plugin", reg.plugin),
				zap.String("executor", reg.execID.String()),
				zap.Error(err))
		}
	}

	d.mirror(ctx, evt)
}

// Snapshot builds the serializable record of evt that travels through a
// bridge backend.
func Snapshot(evt types.Event) *types.Record {
	record := &types.Record{
		Name: evt.EventName(),
		Time: gutils.Clock.GetUTCNow(),
	}
	if provider, ok := evt.(types.MetaProvider); ok {
		record.Meta = provider.EventMeta()
	}

	return record
}

// mirror put evt's record into the bridge. Remote events are not mirrored
// back out.
func (d *Dispatcher) mirror(ctx context.Context, evt types.Event) {
	if d.bridge == nil {
		return
	}
	if _, ok := evt.(*types.RemoteEvent); ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, bridgePutTimeout)
	defer cancel()
	if err := d.bridge.Put(ctx, Snapshot(evt)); err != nil {
		d.logger.Error("mirror event to bridge",
			zap.String("event", evt.EventName().String()),
			zap.Error(err))
	}
}

// runBridgeListener pump inbound records from the bridge
func (d *Dispatcher) runBridgeListener(ctx context.Context) {
	if d.bridge == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case name := <-d.bridgeAddName:
			// check whether there already is a listener for this name
			if _, ok := d.bridgeName2Cancel[name]; ok {
				continue
			}

			// create new listener
			ctx2b, cancel := context.WithCancel(ctx)
			d.bridgeName2Cancel[name] = cancel
			go func() {
				defer cancel()
				recordChan, errChan := d.bridge.Get(ctx2b, name)
			RECORD_LOOP:
				for {
					select {
					case record, ok := <-recordChan:
						if !ok {
							break RECORD_LOOP
						}

						d.Call(ctx2b, &types.RemoteEvent{Record: record})
					case <-ctx2b.Done():
						break RECORD_LOOP
					}
				}

				if err := <-errChan; err != nil {
					if !errors.Is(err, context.Canceled) {
						d.logger.Error("bridge closed", zap.Error(err), zap.String("event", name.String()))
					}
				}
			}()
			d.logger.Info("add bridge listener",
				zap.String("bridge", d.bridge.Name()),
				zap.String("event", name.String()))
		case name := <-d.bridgeRemoveName:
			cancel, ok := d.bridgeName2Cancel[name]
			if !ok {
				continue
			}

			cancel()
			delete(d.bridgeName2Cancel, name)
			d.logger.Info("remove bridge listener", zap.String("event", name.String()))
		}
	}
}
