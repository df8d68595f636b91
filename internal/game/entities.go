package game

import (
	"image/color"
	"sort"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/lawnchairsociety/openscroller/internal/physics"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Sprite is how an entity is drawn. Entities with a body are drawn at the
// body's position; the rest use Rect.
type Sprite struct {
	Kind    worldgen.EntityKind
	Variant string
	Rect    worldgen.Rect
	Color   color.RGBA
	Alpha   float64
	Depth   int
	OffsetY float64
	Hidden  bool
}

// BodyRef links an entity to its physics body.
type BodyRef struct {
	Body *physics.Body
}

var (
	SpriteComponent = donburi.NewComponentType[Sprite]()
	BodyComponent   = donburi.NewComponentType[BodyRef]()

	EnemyTag    = donburi.NewTag()
	PowerUpTag  = donburi.NewTag()
	FireballTag = donburi.NewTag()

	spriteQuery = donburi.NewQuery(filter.Contains(SpriteComponent))
	enemyQuery  = donburi.NewQuery(filter.Contains(EnemyTag, BodyComponent))
)

// Draw depths, back to front.
const (
	depthScenery = iota
	depthFurniture
	depthPowerUp
	depthBlocks
	depthActors
	depthPlayer
)

// Store is the donburi world holding every drawable entity of a level.
type Store struct {
	world  donburi.World
	byBody map[*physics.Body]donburi.Entity
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{world: donburi.NewWorld(), byBody: make(map[*physics.Body]donburi.Entity)}
}

// Spawn creates an entity with a sprite and, when body is non-nil, a body.
func (s *Store) Spawn(sprite Sprite, body *physics.Body, tags ...donburi.IComponentType) donburi.Entity {
	components := []donburi.IComponentType{SpriteComponent}
	if body != nil {
		components = append(components, BodyComponent)
	}
	components = append(components, tags...)

	entity := s.world.Create(components...)
	entry := s.world.Entry(entity)
	if sprite.Alpha == 0 {
		sprite.Alpha = 1
	}
	SpriteComponent.SetValue(entry, sprite)
	if body != nil {
		BodyComponent.SetValue(entry, BodyRef{Body: body})
		s.byBody[body] = entity
	}
	return entity
}

// Sprite returns the entity's sprite for modification, or nil once removed.
func (s *Store) Sprite(entity donburi.Entity) *Sprite {
	if !s.world.Valid(entity) {
		return nil
	}
	return SpriteComponent.Get(s.world.Entry(entity))
}

// SpriteOf returns the sprite attached to a body.
func (s *Store) SpriteOf(body *physics.Body) *Sprite {
	entity, ok := s.byBody[body]
	if !ok {
		return nil
	}
	return s.Sprite(entity)
}

// Has reports whether the entity attached to body carries tag.
func (s *Store) Has(body *physics.Body, tag donburi.IComponentType) bool {
	entity, ok := s.byBody[body]
	if !ok || !s.world.Valid(entity) {
		return false
	}
	return s.world.Entry(entity).HasComponent(tag)
}

// RemoveBody deletes the entity attached to body.
func (s *Store) RemoveBody(body *physics.Body) {
	entity, ok := s.byBody[body]
	if !ok {
		return
	}
	delete(s.byBody, body)
	if s.world.Valid(entity) {
		s.world.Remove(entity)
	}
}

// Remove deletes an entity.
func (s *Store) Remove(entity donburi.Entity) {
	if !s.world.Valid(entity) {
		return
	}
	entry := s.world.Entry(entity)
	if entry.HasComponent(BodyComponent) {
		delete(s.byBody, BodyComponent.Get(entry).Body)
	}
	s.world.Remove(entity)
}

// Enemies returns the bodies of every live enemy.
func (s *Store) Enemies() []*physics.Body {
	var out []*physics.Body
	enemyQuery.Each(s.world, func(entry *donburi.Entry) {
		out = append(out, BodyComponent.Get(entry).Body)
	})
	return out
}

// Len returns the number of entities.
func (s *Store) Len() int { return s.world.Len() }

// drawItem is a sprite resolved to its on-screen rectangle.
type drawItem struct {
	Sprite
	At worldgen.Rect
}

// Visible returns every non-hidden sprite inside [minX, maxX], sorted by
// depth and then by x.
func (s *Store) Visible(minX, maxX float64) []drawItem {
	var out []drawItem
	spriteQuery.Each(s.world, func(entry *donburi.Entry) {
		sp := SpriteComponent.Get(entry)
		if sp.Hidden {
			return
		}
		at := sp.Rect
		if entry.HasComponent(BodyComponent) {
			at = BodyComponent.Get(entry).Body.Rect
		}
		at.Y += sp.OffsetY
		if at.Right() < minX || at.X > maxX {
			return
		}
		out = append(out, drawItem{Sprite: *sp, At: at})
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].At.X < out[j].At.X
	})
	return out
}
