package plugin

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// Instance is the plugin-side state of one effect instance.
type Instance struct {
	Created time.Time

	mu       sync.Mutex
	cooks    int
	lastTime entities.Time
}

// Cooks returns the number of successful cooks of the instance.
func (i *Instance) Cooks() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cooks
}

// LastTime returns the time of the last successful cook.
func (i *Instance) LastTime() entities.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastTime
}

func (i *Instance) cooked(t entities.Time) {
	i.mu.Lock()
	i.cooks++
	i.lastTime = t
	i.mu.Unlock()
}

// instanceTable maps effect handles to instances. Hosts may cook different
// instances concurrently.
type instanceTable struct {
	m cmap.ConcurrentMap[entities.MeshEffectHandle, *Instance]
}

func newInstanceTable() *instanceTable {
	return &instanceTable{m: cmap.NewStringer[entities.MeshEffectHandle, *Instance]()}
}

// create registers effect. An existing instance is kept.
func (t *instanceTable) create(effect entities.MeshEffectHandle, now time.Time) *Instance {
	return t.m.Upsert(effect, nil, func(exist bool, current, _ *Instance) *Instance {
		if exist {
			return current
		}
		return &Instance{Created: now}
	})
}

// destroy removes effect and returns the number of remaining instances.
func (t *instanceTable) destroy(effect entities.MeshEffectHandle) int {
	t.m.Remove(effect)
	return t.m.Count()
}

func (t *instanceTable) get(effect entities.MeshEffectHandle) (*Instance, bool) {
	return t.m.Get(effect)
}

func (t *instanceTable) count() int {
	return t.m.Count()
}
