package worldgen

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode is the visual and structural theme of a level.
type Mode int

const (
	Overworld Mode = iota
	Underground
)

// String returns the lowercase name used in YAML files and on the wire.
func (m Mode) String() string {
	switch m {
	case Overworld:
		return "overworld"
	case Underground:
		return "underground"
	default:
		return "unknown"
	}
}

// ParseMode converts a name back to a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overworld", "over", "o":
		return Overworld, nil
	case "underground", "under", "u":
		return Underground, nil
	default:
		return Overworld, fmt.Errorf("unknown level mode %q", s)
	}
}

// MarshalYAML writes the mode by name.
func (m Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML reads a mode written by MarshalYAML.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// RollMode picks the level mode: overworld when a 0..100 draw is at most
// overworldChance.
func RollMode(src Source, overworldChance int) Mode {
	if src.Between(0, 100) <= overworldChance {
		return Overworld
	}
	return Underground
}

// modeSalt separates the mode roll from the layout draws of the same seed.
const modeSalt = 0x6d6f6465

// ResolvedMode returns the mode a generated level for c will have.
func (c *LevelConfig) ResolvedMode() Mode {
	if !c.RollMode {
		return c.Mode
	}
	return RollMode(NewSource(c.Seed^modeSalt), c.OverworldChance)
}

// SkyColor returns the background colour for the mode as 0xRRGGBB.
func (m Mode) SkyColor() uint32 {
	if m == Underground {
		return 0x000000
	}
	return 0x8585ff
}
