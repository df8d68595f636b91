package worldgen

// Row places one entity per origin at a common height. An origin o shifts
// the entity left by o widths from the segment start, so positive origins
// sit to the left and negative origins to the right.
type Row struct {
	Kind    EntityKind
	Origins []float64
	// YFactor sets the row height: y = ScreenHeight - PlatformHeight*YFactor.
	YFactor float64
	// Alternatives, when set, replaces Origins with one list drawn at random.
	Alternatives [][]float64
	// Staircase rows grow one block taller per step and stand on the ground.
	Staircase bool
}

// Variant is one entry of the structure pattern table.
type Variant struct {
	Name string
	Rows []Row
	// CooldownMin and CooldownMax bound the number of segments that must pass
	// before another structure may be placed. Equal values skip the draw.
	CooldownMin int
	CooldownMax int
}

var overworldCatalog = []Variant{
	{
		Name: "brick-row",
		Rows: []Row{
			{Kind: KindBlock, Origins: []float64{2.5, 1.5, -0.5, -1.5, 3.6, 5.6, -2.6, -4.6}, YFactor: 1.9},
			{Kind: KindMysteryBlock, Origins: []float64{0, 4.6, -3.6}, YFactor: 2.9},
		},
		CooldownMin: 1, CooldownMax: 3,
	},
	{
		Name: "split-bricks",
		Rows: []Row{
			{Kind: KindBlock, Origins: []float64{2.8, 4.8, -1.9, -3.9}, YFactor: 1.9},
			{Kind: KindBlock, Origins: []float64{-0.5, 1.5}, YFactor: 2.9},
			{Kind: KindMysteryBlock, Origins: []float64{3.8, -2.9, 0}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 3,
	},
	{
		Name: "mystery-pair",
		Rows: []Row{
			{Kind: KindBlock, Origins: []float64{0, 2.5, -1.5}, YFactor: 1.9},
			{Kind: KindMysteryBlock, Origins: []float64{1.5, -0.5}, YFactor: 1.9},
			{Kind: KindMysteryBlock, Origins: []float64{0}, YFactor: 2.9},
		},
		CooldownMin: 1, CooldownMax: 3,
	},
	{
		Name: "mystery-stack",
		Rows: []Row{
			{Kind: KindBlock, Origins: []float64{0, 1, 2, -1}, YFactor: 1.9},
			{Kind: KindBlock, Origins: []float64{2, -1}, YFactor: 2.9},
			{Kind: KindMysteryBlock, Origins: []float64{0, 1}, YFactor: 2.9},
		},
		CooldownMin: 1, CooldownMax: 3,
	},
	{
		Name: "mystery-line",
		Rows: []Row{
			{Kind: KindMysteryBlock, YFactor: 1.9, Alternatives: [][]float64{
				{0, -3, 4},
				{0, -3},
				{0},
				{1.5, 0, -0.5},
				{1.75, 0.75, -0.25, -1.25},
			}},
		},
		CooldownMin: 1, CooldownMax: 2,
	},
	{
		Name: "short-bricks",
		Rows: []Row{
			{Kind: KindBlock, Origins: []float64{1.5, 0.5, -1.5}, YFactor: 1.9},
			{Kind: KindMysteryBlock, Origins: []float64{-0.5}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 2,
	},
}

var undergroundCatalog = []Variant{
	{
		Name: "mystery-row",
		Rows: []Row{
			{Kind: KindMysteryBlock, Origins: []float64{2.5, 1.5, 0, -0.5, -1.5}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
	{
		Name: "staircase",
		Rows: []Row{
			{Kind: KindImmovableBlock, Origins: []float64{6.5, 4.5, 2.5, 0.5, -1.5, 0, 2}, Staircase: true},
			{Kind: KindMysteryBlock, Origins: []float64{-3.5}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
	{
		Name: "coin-arch",
		Rows: []Row{
			{Kind: KindMysteryBlock, Origins: []float64{0, -2.5}, YFactor: 2.135},
			{Kind: KindMysteryBlock, Origins: []float64{2.5, 1.5, 0.5, -0.5}, YFactor: 2.37},
			{Kind: KindCoin, Origins: []float64{5.25, 3.75, 2.2, 0.5, -1.15, -2.7}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
	{
		Name: "mystery-double",
		Rows: []Row{
			{Kind: KindMysteryBlock, Origins: []float64{3, 2, 3, 2, -1, -2, -3}, YFactor: 2.9},
			{Kind: KindMysteryBlock, Origins: []float64{3, 2, 3, 2, -1, -2, -3}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
	{
		Name: "coin-bricks",
		Rows: []Row{
			{Kind: KindCoin, Origins: []float64{2.9, 1.3, -0.3, -1.9}, YFactor: 1.9},
			{Kind: KindBlock, Origins: []float64{2, 1, 0, -1}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
	{
		Name: "coin-corridor",
		Rows: []Row{
			{Kind: KindCoin, Origins: []float64{6.1, 4.5, 2.9, 1.3, -0.3, -1.9, -3.5, -5}, YFactor: 1.9},
			{Kind: KindBlock, Origins: []float64{4, 3, 2, 1, 0, -1, -2, -3}, YFactor: 1.9},
		},
		CooldownMin: 1, CooldownMax: 1,
	},
}

// Catalog returns the structure pattern table for a mode.
func Catalog(mode Mode) []Variant {
	if mode == Underground {
		return undergroundCatalog
	}
	return overworldCatalog
}

// Structure is a placed instance of a catalog variant.
type Structure struct {
	Variant  string   `yaml:"variant"`
	Index    int      `yaml:"index"`
	Cooldown int      `yaml:"cooldown"`
	Entities []Entity `yaml:"entities"`
}

// BuildStructure draws a variant for the mode and places it at pieceStart.
// Draw order: variant index, then any alternative list, then the cooldown.
func BuildStructure(src Source, mode Mode, pieceStart float64, d Dimensions) *Structure {
	catalog := Catalog(mode)
	index := src.Between(0, len(catalog)-1)
	return placeVariant(src, catalog[index], index, pieceStart, d)
}

func placeVariant(src Source, v Variant, index int, pieceStart float64, d Dimensions) *Structure {
	s := &Structure{Variant: v.Name, Index: index}
	for _, row := range v.Rows {
		origins := row.Origins
		if len(row.Alternatives) > 0 {
			origins = row.Alternatives[src.Between(0, len(row.Alternatives)-1)]
		}
		s.Entities = append(s.Entities, placeRow(row, origins, pieceStart, d)...)
	}
	s.Cooldown = v.CooldownMin
	if v.CooldownMax > v.CooldownMin {
		s.Cooldown = src.Between(v.CooldownMin, v.CooldownMax)
	}
	return s
}

// placeRow converts origin offsets into world rectangles.
func placeRow(row Row, origins []float64, pieceStart float64, d Dimensions) []Entity {
	scale := d.Scale()
	entities := make([]Entity, 0, len(origins))
	for i, origin := range origins {
		var r Rect
		switch {
		case row.Staircase:
			r.W = 16 * scale
			r.H = float64(16+i*16) * scale
			r.X = pieceStart - origin*r.W
			r.Y = d.GroundY() - r.H
		case row.Kind == KindCoin:
			r.W = 10 * scale
			r.H = 14 * scale
			r.X = pieceStart - origin*r.W
			r.Y = d.ScreenHeight - d.PlatformHeight*row.YFactor - 1.7*r.H
		default:
			r.W = 16 * scale
			r.H = 16 * scale
			r.X = pieceStart - origin*r.W
			r.Y = d.ScreenHeight - d.PlatformHeight*row.YFactor - r.H/2
		}
		entities = append(entities, Entity{Kind: row.Kind, Rect: r})
	}
	return entities
}
