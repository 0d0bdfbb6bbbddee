package recommendations

import (
	"math"
	"math/rand/v2"
	"sync"
)

// RandomSource provides uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

// RandomFunc adapts a plain function to [RandomSource].
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// NewRandomSource returns a goroutine-safe [RandomSource].
//
// A zero seed uses the runtime-seeded global generator; any other seed gives a reproducible sequence.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return RandomFunc(rand.Float64)
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// pickIndex maps a uniform draw onto [0, n) as floor(draw * n).
//
// Draws outside [0, 1) are clamped so a misbehaving source can never index out of range.
func pickIndex(draw float64, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(draw * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
