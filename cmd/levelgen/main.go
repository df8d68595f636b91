package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func main() {
	seeds := flag.String("seeds", "", "Seed range to generate (e.g., 1-20 or 7)")
	mode := flag.String("mode", "", "Force overworld or underground (default: rolled per seed)")
	outDir := flag.String("out", "data/levels", "Output directory")
	configFile := flag.String("config", "data/config.yaml", "Path to game config YAML file")
	check := flag.Bool("check", false, "Reload each file and verify it regenerates identically")
	flag.Parse()

	if *seeds == "" {
		fmt.Fprintln(os.Stderr, "Error: --seeds is required (e.g., --seeds=1-20 or --seeds=7)")
		flag.Usage()
		os.Exit(1)
	}

	start, end, err := parseSeedRange(*seeds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid seed range: %v\n", err)
		os.Exit(1)
	}

	var forced *worldgen.Mode
	if *mode != "" {
		m, err := worldgen.ParseMode(*mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		forced = &m
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating levels for seeds %d-%d\n", start, end)
	fmt.Printf("Output directory: %s\n\n", *outDir)

	failed := 0
	for seed := start; seed <= end; seed++ {
		fmt.Printf("Generating seed %d... ", seed)
		path, st, err := generate(cfg, seed, forced, *outDir, *check)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed++
			continue
		}
		fmt.Printf("OK %s (%d holes, %d structures, %d goombas)\n", filepath.Base(path), st.Holes, st.Structures, st.Goombas)
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d level(s) failed\n", failed, end-start+1)
		os.Exit(1)
	}
	fmt.Printf("\nSuccessfully generated %d level(s)\n", end-start+1)
}

// generate writes one level and, with check set, proves the file reproduces.
func generate(cfg *config.GameConfig, seed int64, forced *worldgen.Mode, outDir string, check bool) (string, worldgen.Stats, error) {
	lc := cfg.NewLevelConfig(seed)
	if forced != nil {
		lc.Mode = *forced
		lc.RollMode = false
	}

	level, err := worldgen.NewGenerator(lc).Generate()
	if err != nil {
		return "", worldgen.Stats{}, err
	}

	path := filepath.Join(outDir, fmt.Sprintf("level_%d_%s.yaml", seed, level.Mode))
	if err := worldgen.SaveLevel(level, path); err != nil {
		return "", worldgen.Stats{}, err
	}
	if check {
		if err := verify(path); err != nil {
			return path, worldgen.Stats{}, err
		}
	}
	return path, level.Stats(), nil
}

func verify(path string) error {
	loaded, err := worldgen.LoadLevel(path)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("reloaded level invalid: %w", err)
	}
	again, err := worldgen.Regenerate(loaded)
	if err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}
	want, err := worldgen.Marshal(loaded)
	if err != nil {
		return err
	}
	got, err := worldgen.Marshal(again)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return fmt.Errorf("seed %d does not regenerate identically", loaded.Seed)
	}
	return nil
}

// parseSeedRange parses a seed range string like "1-20" or "5"
func parseSeedRange(s string) (start, end int64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty range")
	}
	// Allow a leading minus on the first seed.
	if idx := strings.Index(s[1:], "-"); idx >= 0 {
		first, second := s[:idx+1], s[idx+2:]
		start, err = strconv.ParseInt(strings.TrimSpace(first), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start seed: %w", err)
		}
		end, err = strconv.ParseInt(strings.TrimSpace(second), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end seed: %w", err)
		}
	} else {
		start, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seed: %w", err)
		}
		end = start
	}

	if end < start {
		return 0, 0, fmt.Errorf("end seed must be >= start seed")
	}
	return start, end, nil
}
