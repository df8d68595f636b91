package worldgen

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNoCoordinate is returned when no coordinate clear of holes could be drawn.
var ErrNoCoordinate = errors.New("no free coordinate")

// ErrInvalidLevel is wrapped by Level.Validate failures.
var ErrInvalidLevel = errors.New("invalid level")

// maxCoordinateAttempts bounds the redraws in RandomCoordinate.
const maxCoordinateAttempts = 500

// SegmentKind tells whether a segment has ground under it.
type SegmentKind int

const (
	SegmentSolid SegmentKind = iota
	SegmentHole
)

func (k SegmentKind) String() string {
	if k == SegmentHole {
		return "hole"
	}
	return "solid"
}

// MarshalYAML writes the kind by name.
func (k SegmentKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads "solid" or "hole".
func (k *SegmentKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "solid":
		*k = SegmentSolid
	case "hole":
		*k = SegmentHole
	default:
		return fmt.Errorf("unknown segment kind %q", s)
	}
	return nil
}

// Segment is one fixed-width slice of the level.
type Segment struct {
	Index     int         `yaml:"index"`
	Start     float64     `yaml:"start"`
	End       float64     `yaml:"end"`
	Kind      SegmentKind `yaml:"kind"`
	Structure *Structure  `yaml:"structure,omitempty"`
}

// IsHole reports whether the segment has no ground.
func (s Segment) IsHole() bool { return s.Kind == SegmentHole }

// Hole is an exclusion zone where the ground is missing.
type Hole struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Contains reports whether x falls inside the hole's exclusion band, which
// extends margin pixels to the left of the gap.
func (h Hole) Contains(x, margin float64) bool {
	return x >= h.Start-margin && x <= h.End
}

// Level is a generated, fully placed level.
type Level struct {
	Seed       int64       `yaml:"seed"`
	Mode       Mode        `yaml:"mode"`
	Config     LevelConfig `yaml:"config"`
	Dimensions Dimensions  `yaml:"dimensions"`
	Segments   []Segment   `yaml:"segments"`
	Holes      []Hole      `yaml:"holes"`
	Furniture  []Entity    `yaml:"furniture"`
	Scenery    []Entity    `yaml:"scenery,omitempty"`
	Spawns     []Entity    `yaml:"spawns,omitempty"`
	// TeleportX is where the underground final tube drops the player.
	TeleportX float64 `yaml:"teleport_x,omitempty"`

	nextID int
}

func newLevel(config *LevelConfig, mode Mode) *Level {
	return &Level{Seed: config.Seed, Mode: mode, Config: *config, Dimensions: config.Dimensions(), nextID: 1}
}

// assignID numbers an entity in placement order.
func (l *Level) assignID(e *Entity) {
	if l.nextID == 0 {
		l.nextID = l.maxID() + 1
	}
	e.ID = l.nextID
	l.nextID++
}

func (l *Level) maxID() int {
	max := 0
	for _, e := range l.Entities() {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

func (l *Level) addFurniture(e Entity) {
	l.assignID(&e)
	l.Furniture = append(l.Furniture, e)
}

func (l *Level) addScenery(e Entity) {
	l.assignID(&e)
	l.Scenery = append(l.Scenery, e)
}

func (l *Level) addSpawn(e Entity) {
	l.assignID(&e)
	l.Spawns = append(l.Spawns, e)
}

// Structures returns the structures in walk order.
func (l *Level) Structures() []*Structure {
	var out []*Structure
	for i := range l.Segments {
		if l.Segments[i].Structure != nil {
			out = append(out, l.Segments[i].Structure)
		}
	}
	return out
}

// Entities returns every placed entity: structure pieces first, then
// furniture, scenery and spawns.
func (l *Level) Entities() []Entity {
	var out []Entity
	for _, s := range l.Structures() {
		out = append(out, s.Entities...)
	}
	out = append(out, l.Furniture...)
	out = append(out, l.Scenery...)
	out = append(out, l.Spawns...)
	return out
}

// EntitiesOfKind filters Entities by kind.
func (l *Level) EntitiesOfKind(kind EntityKind) []Entity {
	var out []Entity
	for _, e := range l.Entities() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Entity looks up an entity by ID.
func (l *Level) Entity(id int) (Entity, bool) {
	for _, e := range l.Entities() {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// Ground returns one rectangle per run of consecutive solid segments,
// spanning from the ground line to the bottom of the screen.
func (l *Level) Ground() []Rect {
	d := l.Dimensions
	var out []Rect
	var run *Rect
	for _, s := range l.Segments {
		if s.IsHole() {
			run = nil
			continue
		}
		if run != nil && s.Start <= run.Right() {
			run.W = s.End - run.X
			continue
		}
		out = append(out, Rect{X: s.Start, Y: d.GroundY(), W: s.End - s.Start, H: d.PlatformHeight})
		run = &out[len(out)-1]
	}
	return out
}

// HoleAt reports whether x lies over a gap in the ground.
func (l *Level) HoleAt(x float64) bool {
	for _, h := range l.Holes {
		if x >= h.Start && x < h.End {
			return true
		}
	}
	return false
}

// RandomCoordinate draws an x coordinate. Entities are kept away from the
// start and end screens; ground coordinates are redrawn while they fall in
// a hole's exclusion band.
func (l *Level) RandomCoordinate(src Source, entity, ground bool) (float64, error) {
	d := l.Dimensions
	start, end := d.ScreenWidth, d.WorldWidth
	if entity {
		start, end = d.ScreenWidth*1.5, d.WorldWidth-d.ScreenWidth*3
	}

	for attempt := 0; attempt < maxCoordinateAttempts; attempt++ {
		x := float64(src.Between(int(start), int(end)))
		if !ground || !l.inHoleBand(x) {
			return x, nil
		}
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrNoCoordinate, maxCoordinateAttempts)
}

func (l *Level) inHoleBand(x float64) bool {
	margin := l.Dimensions.PieceWidth * 1.5
	for _, h := range l.Holes {
		if h.Contains(x, margin) {
			return true
		}
	}
	return false
}

// Validate checks the walk invariants: no adjacent holes, no structure right
// after a hole or another structure, solid safe zones at both ends, and a
// recorded exclusion zone for every hole.
func (l *Level) Validate() error {
	d := l.Dimensions
	if len(l.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidLevel)
	}

	holes := 0
	for i, s := range l.Segments {
		if s.Index != i {
			return fmt.Errorf("%w: segment %d has index %d", ErrInvalidLevel, i, s.Index)
		}
		if s.IsHole() {
			holes++
			if s.Structure != nil {
				return fmt.Errorf("%w: hole segment %d carries a structure", ErrInvalidLevel, i)
			}
			if s.Start <= d.ScreenWidth*2 {
				return fmt.Errorf("%w: hole segment %d inside the start zone", ErrInvalidLevel, i)
			}
			if s.Start >= d.WorldWidth-d.ScreenWidth*2 || s.Start >= d.WorldWidth-d.PieceWidth*4 {
				return fmt.Errorf("%w: hole segment %d inside the end zone", ErrInvalidLevel, i)
			}
			if !l.hasHole(s.Start, s.End) {
				return fmt.Errorf("%w: hole segment %d has no exclusion zone", ErrInvalidLevel, i)
			}
		}
		if i == 0 {
			continue
		}
		prev := l.Segments[i-1]
		if s.IsHole() && prev.IsHole() {
			return fmt.Errorf("%w: consecutive holes at segments %d and %d", ErrInvalidLevel, i-1, i)
		}
		if s.Structure != nil && (prev.IsHole() || prev.Structure != nil) {
			return fmt.Errorf("%w: structure at segment %d follows a hole or structure", ErrInvalidLevel, i)
		}
	}
	if holes != len(l.Holes) {
		return fmt.Errorf("%w: %d hole segments but %d exclusion zones", ErrInvalidLevel, holes, len(l.Holes))
	}

	seen := make(map[int]bool)
	for _, e := range l.Entities() {
		if e.ID == 0 {
			return fmt.Errorf("%w: %s entity without id", ErrInvalidLevel, e.Kind)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate entity id %d", ErrInvalidLevel, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func (l *Level) hasHole(start, end float64) bool {
	for _, h := range l.Holes {
		if h.Start == start && h.End == end {
			return true
		}
	}
	return false
}

// Stats summarises a level for logs and file headers.
type Stats struct {
	Segments   int
	Holes      int
	Structures int
	Blocks     int
	Mystery    int
	Coins      int
	Immovable  int
	Goombas    int
}

// Stats counts the level's contents.
func (l *Level) Stats() Stats {
	st := Stats{Segments: len(l.Segments), Holes: len(l.Holes), Structures: len(l.Structures())}
	for _, e := range l.Entities() {
		switch e.Kind {
		case KindBlock:
			st.Blocks++
		case KindMysteryBlock:
			st.Mystery++
		case KindCoin:
			st.Coins++
		case KindImmovableBlock:
			st.Immovable++
		case KindGoomba:
			st.Goombas++
		}
	}
	return st
}
