package worldgen

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Marshal encodes a level as YAML.
func Marshal(level *Level) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(level); err != nil {
		return nil, fmt.Errorf("failed to encode level: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode level: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a level written by Marshal.
func Unmarshal(data []byte) (*Level, error) {
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to decode level: %w", err)
	}
	return &level, nil
}

// SaveLevel writes a level to a YAML file with a summary header.
func SaveLevel(level *Level, path string) error {
	data, err := Marshal(level)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	st := level.Stats()
	fmt.Fprintf(f, "# Level seed %d - %s\n", level.Seed, level.Mode)
	fmt.Fprintf(f, "# Segments: %d, holes: %d, structures: %d\n", st.Segments, st.Holes, st.Structures)
	fmt.Fprintf(f, "# Blocks: %d, mystery: %d, coins: %d, goombas: %d\n\n", st.Blocks, st.Mystery, st.Coins, st.Goombas)

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write level: %w", err)
	}
	return nil
}

// LoadLevel reads a level written by SaveLevel.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}
	return Unmarshal(data)
}

// Regenerate rebuilds a level from its stored configuration.
func Regenerate(level *Level) (*Level, error) {
	config := level.Config
	return NewGenerator(&config).Generate()
}
