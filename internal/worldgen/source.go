package worldgen

import "math/rand"

// Source supplies the uniform random draws the generator consumes.
type Source interface {
	// Between returns an integer in [min, max], both ends inclusive.
	Between(min, max int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// randSource adapts math/rand to Source.
type randSource struct {
	rng *rand.Rand
}

// NewSource returns a deterministic Source for the given seed.
func NewSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.rng.Intn(max-min+1)
}

func (s *randSource) Float64() float64 {
	return s.rng.Float64()
}
