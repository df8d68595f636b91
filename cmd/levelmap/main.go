package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func main() {
	inputFile := flag.String("input", "", "Path to a level YAML file")
	seed := flag.Int64("seed", 0, "Generate the level for this seed instead of reading a file")
	mode := flag.String("mode", "", "Force overworld or underground when generating")
	columns := flag.Int("columns", 160, "Map width in characters")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	level, err := load(*inputFile, *seed, *mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var output strings.Builder
	st := level.Stats()
	output.WriteString(fmt.Sprintf("Level Map (Seed: %d, Mode: %s)\n", level.Seed, level.Mode))
	output.WriteString(fmt.Sprintf("Segments: %d, holes: %d, structures: %d, goombas: %d\n", st.Segments, st.Holes, st.Structures, st.Goombas))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")
	output.WriteString(worldgen.RenderASCII(level, *columns))

	if *showLegend {
		output.WriteString(getLegend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// load reads the input file, or generates from the seed when no file is given.
func load(inputFile string, seed int64, mode string) (*worldgen.Level, error) {
	if inputFile != "" {
		return worldgen.LoadLevel(inputFile)
	}
	lc := config.DefaultConfig().NewLevelConfig(seed)
	if mode != "" {
		m, err := worldgen.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		lc.Mode = m
		lc.RollMode = false
	}
	return worldgen.NewGenerator(lc).Generate()
}

func getLegend() string {
	return `
Legend:
  =   Ground
  .   Hole
  #   Brick block
  ?   Mystery block
  X   Immovable block
  o   Coin
  g   Goomba spawn
  T   Tube
  |   Flag pole
  C   Castle
  -   Ceiling (underground)
`
}
