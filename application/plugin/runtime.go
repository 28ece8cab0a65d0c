package plugin

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/errors"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
	"github.com/meshfx-dev/meshfx-sdk/suites"
)

// runtimeConfig holds the options of a Runtime.
type runtimeConfig struct {
	logger         *slog.Logger
	recorder       ports.Recorder
	now            func() time.Time
	middleware     []Middleware
	defaultTime    entities.Time
	strictOrdering bool
	traceSuites    bool
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeConfig)

// WithLogger sets the logger used for actions and suite tracing.
// The default discards everything.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(c *runtimeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder reports action, suite call and mesh measurements to rec.
func WithRecorder(rec ports.Recorder) RuntimeOption {
	return func(c *runtimeConfig) {
		if rec != nil {
			c.recorder = rec
		}
	}
}

// WithStrictOrdering rejects actions received out of lifecycle order with
// an InvalidStateError. Off by default: the host is trusted.
func WithStrictOrdering(strict bool) RuntimeOption {
	return func(c *runtimeConfig) {
		c.strictOrdering = strict
	}
}

// WithTraceSuites logs the status of every suite call at debug level.
func WithTraceSuites(trace bool) RuntimeOption {
	return func(c *runtimeConfig) {
		c.traceSuites = trace
	}
}

// WithDefaultTime sets the time cooked when inArgs carries no time.
func WithDefaultTime(t entities.Time) RuntimeOption {
	return func(c *runtimeConfig) {
		c.defaultTime = t
	}
}

// WithMiddleware adds middleware around every action handler, inside the
// built-in metrics, logging and recovery layers.
func WithMiddleware(mw ...Middleware) RuntimeOption {
	return func(c *runtimeConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithClock replaces time.Now for instance timestamps.
func WithClock(now func() time.Time) RuntimeOption {
	return func(c *runtimeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Runtime is the context of one plugin: host handle, resolved suites,
// per-instance table and lifecycle state. It is safe for concurrent use.
type Runtime struct {
	info      entities.PluginInfo
	effect    *MeshEffect
	cfg       runtimeConfig
	table     *handlerTable
	instances *instanceTable

	// loadMu serializes load so suite resolution happens at most once
	// successfully.
	loadMu sync.Mutex

	mu      sync.RWMutex
	host    ports.Host
	suites  *suites.Suites
	state   State
	cooking int

	descriptor *Descriptor
}

// NewRuntime creates the runtime of a plugin. A nil effect yields a plugin
// that answers every action with StatusReplyDefault.
func NewRuntime(info entities.PluginInfo, effect *MeshEffect, opts ...RuntimeOption) *Runtime {
	cfg := runtimeConfig{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder: ports.NopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Runtime{
		info:      info,
		effect:    effect,
		cfg:       cfg,
		instances: newInstanceTable(),
	}

	handlers := map[entities.Action]ActionHandler{}
	if effect != nil {
		handlers[entities.ActionLoad] = r.load
		handlers[entities.ActionDescribe] = r.describe
		handlers[entities.ActionCreateInstance] = r.createInstance
		handlers[entities.ActionDestroyInstance] = r.destroyInstance
		handlers[entities.ActionCook] = r.cook
	}

	middleware := append([]Middleware{
		MetricsMiddleware(cfg.recorder),
		LoggingMiddleware(cfg.logger),
		PanicRecoveryMiddleware(),
	}, cfg.middleware...)
	r.table = newHandlerTable(handlers, middleware...)

	r.descriptor = &Descriptor{
		Info:      info,
		SetHost:   r.SetHost,
		MainEntry: r.MainEntry,
	}
	return r
}

// Descriptor returns the descriptor publishing this runtime. The same
// pointer is returned on every call.
func (r *Runtime) Descriptor() *Descriptor {
	return r.descriptor
}

// Info returns the plugin identity.
func (r *Runtime) Info() entities.PluginInfo {
	return r.info
}

// SetHost stores the host handle. Suites are resolved from it at load, so
// suites resolved from a previous host are dropped and the plugin returns
// to the unloaded state.
func (r *Runtime) SetHost(host ports.Host) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = host
	r.suites = nil
	r.state = StateUnloaded
}

// MainEntry is Dispatch with a background context, matching MainEntryFunc.
func (r *Runtime) MainEntry(action string, effect entities.MeshEffectHandle, inArgs, outArgs entities.PropertySetHandle) entities.Status {
	return r.Dispatch(context.Background(), action, effect, inArgs, outArgs)
}

// Dispatch routes action to its handler and converts the outcome to a
// status. Unrecognized actions, and actions this plugin does not handle,
// return StatusReplyDefault without side effects.
func (r *Runtime) Dispatch(ctx context.Context, action string, effect entities.MeshEffectHandle, inArgs, outArgs entities.PropertySetHandle) entities.Status {
	act := entities.ParseAction(action)
	handler, ok := r.table.lookup(act)
	if !ok {
		r.cfg.logger.DebugContext(ctx, "action not handled",
			"plugin", r.info.Identifier,
			"action", action)
		return entities.StatusReplyDefault
	}

	if err := r.checkOrder(act); err != nil {
		r.cfg.logger.WarnContext(ctx, "action out of order",
			"plugin", r.info.Identifier,
			"action", act.String(),
			"error", err)
		return errors.ToStatus(err)
	}

	err := handler(ctx, &ActionCall{
		Plugin:  r.info.Identifier,
		Action:  act,
		Effect:  effect,
		InArgs:  inArgs,
		OutArgs: outArgs,
	})
	return errors.ToStatus(err)
}

// State returns the current lifecycle state.
func (r *Runtime) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

// Instance returns the state of a live effect instance.
func (r *Runtime) Instance(effect entities.MeshEffectHandle) (*Instance, bool) {
	return r.instances.get(effect)
}

// InstanceCount returns the number of live effect instances.
func (r *Runtime) InstanceCount() int {
	return r.instances.count()
}

func (r *Runtime) stateLocked() State {
	if r.state == StateInstantiated && r.cooking > 0 {
		return StateCooking
	}
	return r.state
}

func (r *Runtime) checkOrder(action entities.Action) error {
	if !r.cfg.strictOrdering {
		return nil
	}
	st := r.State()
	if st.Accepts(action) {
		return nil
	}
	return &errors.InvalidStateError{Action: action, State: st.String()}
}

// advance records a successful action in the lifecycle state.
func (r *Runtime) advance(action entities.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch action {
	case entities.ActionLoad:
		if r.state == StateUnloaded {
			r.state = StateLoaded
		}
	case entities.ActionDescribe:
		if r.state <= StateLoaded {
			r.state = StateDescribed
		}
	case entities.ActionCreateInstance:
		r.state = StateInstantiated
	case entities.ActionDestroyInstance:
		if r.instances.count() == 0 {
			r.state = StateDestroyed
		} else {
			r.state = StateInstantiated
		}
	}
}

// currentSuites returns the suites resolved at load, or a
// MissingHostFeatureError when load never succeeded.
func (r *Runtime) currentSuites() (*suites.Suites, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.suites == nil {
		return nil, &errors.MissingHostFeatureError{
			Suite:   entities.PropertySuiteName,
			Version: entities.SuiteVersion,
		}
	}
	return r.suites, nil
}
