package teamgen

import "math/rand/v2"

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic source, for tests and reproducible draws
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type runtimeSource struct{}

func (runtimeSource) IntN(n int) int { return rand.IntN(n) }

// shuffle is an in-place Fisher–Yates shuffle
func shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
