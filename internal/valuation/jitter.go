package valuation

import (
	"math/rand/v2"
	"sync"
)

// JitterSource supplies bounded random perturbations in [0, max).
type JitterSource interface {
	Jitter(max float64) float64
}

// JitterFunc adapts a plain function to JitterSource
type JitterFunc func(max float64) float64

func (f JitterFunc) Jitter(max float64) float64 { return f(max) }

// NoJitter always returns 0, making generated values fully deterministic
var NoJitter JitterSource = JitterFunc(func(float64) float64 { return 0 })

// FixedJitter returns the given fraction of max on every call.
func FixedJitter(fraction float64) JitterSource {
	return JitterFunc(func(max float64) float64 { return fraction * max })
}

// RandomJitter draws perturbations from a math/rand/v2 source. Safe for concurrent use.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter creates a jitter source backed by src, or by a randomly seeded PCG when src is nil
func NewRandomJitter(src rand.Source) *RandomJitter {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &RandomJitter{rng: rand.New(src)}
}

func (j *RandomJitter) Jitter(max float64) float64 {
	if max <= 0 {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rng.Float64() * max
}

func jitterOrNone(j JitterSource) JitterSource {
	if j == nil {
		return NoJitter
	}
	return j
}
