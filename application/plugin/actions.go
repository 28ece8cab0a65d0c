package plugin

import (
	"context"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
	"github.com/meshfx-dev/meshfx-sdk/domain/ports"
	"github.com/meshfx-dev/meshfx-sdk/suites"
)

// load resolves the host suites. It runs at most once successfully; later
// loads are no-ops.
func (r *Runtime) load(ctx context.Context, call *ActionCall) error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.mu.RLock()
	host, loaded := r.host, r.suites != nil
	r.mu.RUnlock()

	if !loaded {
		s, err := suites.Resolve(host)
		if err != nil {
			return err
		}
		if obs := r.suiteObservers(); len(obs) > 0 {
			s = suites.Trace(s, obs...)
		}

		r.mu.Lock()
		r.suites = s
		r.mu.Unlock()

		r.cfg.logger.InfoContext(ctx, "host suites resolved", "plugin", call.Plugin)
	}

	r.advance(entities.ActionLoad)
	return nil
}

func (r *Runtime) suiteObservers() []suites.Observer {
	var obs []suites.Observer
	if r.cfg.traceSuites {
		obs = append(obs, suites.LoggingObserver(r.cfg.logger.With("plugin", r.info.Identifier)))
	}
	if _, nop := r.cfg.recorder.(ports.NopRecorder); !nop {
		obs = append(obs, suites.RecorderObserver(r.cfg.recorder))
	}
	return obs
}

// describe declares the effect context and its input and output slots.
func (r *Runtime) describe(_ context.Context, call *ActionCall) error {
	s, err := r.currentSuites()
	if err != nil {
		return err
	}

	props, st := s.MeshEffect.GetPropertySet(call.Effect)
	if err := suites.CheckMeshEffect("getPropertySet", st); err != nil {
		return err
	}
	st = s.Property.PropSetString(props, entities.MeshEffectPropContext, 0, entities.MeshEffectContextFilter)
	if err := suites.CheckProperty("propSetString", st); err != nil {
		return err
	}

	for _, slot := range []Slot{r.effect.Input, r.effect.Output} {
		if err := defineSlot(s, call.Effect, slot); err != nil {
			return err
		}
	}

	r.advance(entities.ActionDescribe)
	return nil
}

func defineSlot(s *suites.Suites, effect entities.MeshEffectHandle, slot Slot) error {
	props, st := s.MeshEffect.InputDefine(effect, slot.Name)
	if err := suites.CheckMeshEffect("inputDefine", st); err != nil {
		return err
	}
	if slot.Label == "" {
		return nil
	}
	st = s.Property.PropSetString(props, entities.PropLabel, 0, slot.Label)
	return suites.CheckProperty("propSetString", st)
}

func (r *Runtime) createInstance(ctx context.Context, call *ActionCall) error {
	r.instances.create(call.Effect, r.cfg.now())
	r.advance(entities.ActionCreateInstance)
	r.cfg.logger.DebugContext(ctx, "instance created",
		"plugin", call.Plugin,
		"effect", call.Effect.String(),
		"instances", r.instances.count())
	return nil
}

// destroyInstance forgets the instance. Unknown instances are not an error.
func (r *Runtime) destroyInstance(ctx context.Context, call *ActionCall) error {
	remaining := r.instances.destroy(call.Effect)
	r.advance(entities.ActionDestroyInstance)
	r.cfg.logger.DebugContext(ctx, "instance destroyed",
		"plugin", call.Plugin,
		"effect", call.Effect.String(),
		"instances", remaining)
	return nil
}
