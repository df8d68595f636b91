package worldgen

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntityKind identifies what a placed entity is.
type EntityKind int

const (
	KindBlock EntityKind = iota
	KindMysteryBlock
	KindCoin
	KindImmovableBlock
	KindGround
	KindStartPlatform
	KindFallGuard
	KindInvisibleWall
	KindWall
	KindRoof
	KindTube
	KindFinalTrigger
	KindFlagMast
	KindFlag
	KindCastle
	KindCloud
	KindMountain
	KindBush
	KindFence
	KindGoomba
)

var kindNames = map[EntityKind]string{
	KindBlock:          "block",
	KindMysteryBlock:   "mystery_block",
	KindCoin:           "coin",
	KindImmovableBlock: "immovable_block",
	KindGround:         "ground",
	KindStartPlatform:  "start_platform",
	KindFallGuard:      "fall_guard",
	KindInvisibleWall:  "invisible_wall",
	KindWall:           "wall",
	KindRoof:           "roof",
	KindTube:           "tube",
	KindFinalTrigger:   "final_trigger",
	KindFlagMast:       "flag_mast",
	KindFlag:           "flag",
	KindCastle:         "castle",
	KindCloud:          "cloud",
	KindMountain:       "mountain",
	KindBush:           "bush",
	KindFence:          "fence",
	KindGoomba:         "goomba",
}

// String returns the snake_case name of the kind.
func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEntityKind converts a name produced by String back to a kind.
func ParseEntityKind(s string) (EntityKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// IsSolid reports whether bodies of this kind block movement.
func (k EntityKind) IsSolid() bool {
	switch k {
	case KindBlock, KindMysteryBlock, KindImmovableBlock, KindGround, KindStartPlatform,
		KindFallGuard, KindInvisibleWall, KindWall, KindRoof, KindTube, KindFinalTrigger:
		return true
	}
	return false
}

// IsStructurePiece reports whether the kind is emitted by the structure catalog.
func (k EntityKind) IsStructurePiece() bool {
	switch k {
	case KindBlock, KindMysteryBlock, KindCoin, KindImmovableBlock:
		return true
	}
	return false
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal centre.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// Overlaps reports whether two rectangles share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Entity is a single placed object in a level.
type Entity struct {
	ID      int        `yaml:"id"`
	Kind    EntityKind `yaml:"kind"`
	Variant string     `yaml:"variant,omitempty"`
	Rect    `yaml:",inline"`
	// Dir is the initial walking direction for spawns: 1 right, -1 left.
	Dir int `yaml:"dir,omitempty"`
}

// MarshalYAML writes the kind by name.
func (k EntityKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads a kind written by MarshalYAML.
func (k *EntityKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEntityKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
