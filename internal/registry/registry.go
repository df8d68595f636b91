// Package registry is the shared key-value state scenes read and write,
// with change notifications delivered through donburi events.
package registry

import (
	"maps"
	"sync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Change describes one key being set.
type Change struct {
	Key string
	Old any
	New any
}

// ChangeEvent is published for every Set that alters a value.
var ChangeEvent = events.NewEventType[Change]()

// Registry is safe for concurrent use. Change callbacks run on the goroutine
// that calls ProcessEvents, normally the game loop.
type Registry struct {
	mu     sync.RWMutex
	values map[string]any

	// Publishers only append to the queues; the donburi world is touched
	// under worldMu from ProcessEvents and the subscribe calls.
	qMu     sync.Mutex
	changes []Change
	scene   []SceneEvent

	worldMu sync.Mutex
	world   donburi.World
}

// maxDrainPasses bounds how many times ProcessEvents refills from callbacks
// that publish while being delivered.
const maxDrainPasses = 8

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]any),
		world:  donburi.NewWorld(),
	}
}

// Set stores value under key and queues a Change if it differs from the
// current value. Values that cannot be compared always notify.
func (r *Registry) Set(key string, value any) {
	r.mu.Lock()
	old, existed := r.values[key]
	r.values[key] = value
	r.mu.Unlock()

	if existed && sameValue(old, value) {
		return
	}
	r.publish(Change{Key: key, Old: old, New: value})
}

func sameValue(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func (r *Registry) publish(c Change) {
	r.qMu.Lock()
	r.changes = append(r.changes, c)
	r.qMu.Unlock()
}

// Get returns the value stored under key.
func (r *Registry) Get(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// GetInt returns key as an int, or 0 when missing or of another type.
func (r *Registry) GetInt(key string) int {
	v, _ := r.Get(key)
	return toInt(v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetFloat returns key as a float64, or 0.
func (r *Registry) GetFloat(key string) float64 {
	v, _ := r.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// GetBool returns key as a bool, or false.
func (r *Registry) GetBool(key string) bool {
	v, _ := r.Get(key)
	b, _ := v.(bool)
	return b
}

// GetString returns key as a string, or "".
func (r *Registry) GetString(key string) string {
	v, _ := r.Get(key)
	s, _ := v.(string)
	return s
}

// Add increments a numeric key and returns the new value, stored as an int.
func (r *Registry) Add(key string, delta int) int {
	r.mu.Lock()
	old := r.values[key]
	n := toInt(old) + delta
	r.values[key] = n
	r.mu.Unlock()

	if delta != 0 {
		r.publish(Change{Key: key, Old: old, New: n})
	}
	return n
}

// Snapshot copies every value.
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.values)
}

// Map copies the listed keys into a scene-local view. Missing keys are left
// out.
func (r *Registry) Map(keys ...string) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := r.values[k]; ok {
			out[k] = v
		}
	}
	return out
}

// OnChange registers fn for every change of key. An empty key matches all
// keys. fn may call Set but must not subscribe.
func (r *Registry) OnChange(key string, fn func(Change)) {
	r.worldMu.Lock()
	defer r.worldMu.Unlock()
	ChangeEvent.Subscribe(r.world, func(_ donburi.World, c Change) {
		if key == "" || c.Key == key {
			fn(c)
		}
	})
}

// ProcessEvents delivers queued scene events and then queued changes,
// including those published by the callbacks themselves. Call once per
// frame.
func (r *Registry) ProcessEvents() {
	r.worldMu.Lock()
	defer r.worldMu.Unlock()

	for pass := 0; pass < maxDrainPasses; pass++ {
		r.qMu.Lock()
		scene, changes := r.scene, r.changes
		r.scene, r.changes = nil, nil
		r.qMu.Unlock()

		if len(scene) == 0 && len(changes) == 0 {
			return
		}
		for _, e := range scene {
			sceneEvent.Publish(r.world, e)
		}
		sceneEvent.ProcessEvents(r.world)

		// Changes made by scene handlers join this pass.
		r.qMu.Lock()
		changes = append(changes, r.changes...)
		r.changes = nil
		r.qMu.Unlock()

		for _, c := range changes {
			ChangeEvent.Publish(r.world, c)
		}
		ChangeEvent.ProcessEvents(r.world)
	}
}
