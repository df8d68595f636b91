package worldgen

// scriptedSource replays fixed draws and then falls back to the minimum.
// Scripted values are clamped into the requested range.
type scriptedSource struct {
	values []int
	calls  int
}

func newScripted(values ...int) *scriptedSource {
	return &scriptedSource{values: values}
}

func (s *scriptedSource) Between(min, max int) int {
	s.calls++
	if max < min {
		min, max = max, min
	}
	if len(s.values) == 0 {
		return min
	}
	v := s.values[0]
	s.values = s.values[1:]
	return clampInt(v, min, max)
}

func (s *scriptedSource) Float64() float64 { return 0 }
