package registry

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEvent is a named value emitted by one scene for another.
type SceneEvent struct {
	Name  string
	Value any
}

var sceneEvent = events.NewEventType[SceneEvent]()

// Bus carries scene events over the registry's donburi world, so one
// ProcessEvents call drains both.
type Bus struct {
	reg *Registry
}

// NewBus returns a bus bound to reg.
func NewBus(reg *Registry) *Bus {
	return &Bus{reg: reg}
}

// Emit queues a named event.
func (b *Bus) Emit(name string, value any) {
	b.reg.qMu.Lock()
	defer b.reg.qMu.Unlock()
	b.reg.scene = append(b.reg.scene, SceneEvent{Name: name, Value: value})
}

// On registers fn for events called name.
func (b *Bus) On(name string, fn func(value any)) {
	b.reg.worldMu.Lock()
	defer b.reg.worldMu.Unlock()
	sceneEvent.Subscribe(b.reg.world, func(_ donburi.World, e SceneEvent) {
		if e.Name == name {
			fn(e.Value)
		}
	})
}

// Watch mirrors every value emitted as name into the registry key of the
// same name.
func (b *Bus) Watch(names ...string) {
	for _, name := range names {
		b.On(name, func(value any) {
			b.reg.Set(name, value)
		})
	}
}
