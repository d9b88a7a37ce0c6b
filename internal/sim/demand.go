package sim

import (
	"errors"
	"math"
	"math/rand"
	"sync"
)

var ErrInsufficientData = errors.New("no historical demand data available")

// DemandMethod selects how per-round demand is generated from history.
type DemandMethod string

const (
	// DemandBootstrap resamples one historical value uniformly at random.
	DemandBootstrap DemandMethod = "bootstrap"
	// DemandNormal draws from a normal fit to the history's mean and stdev.
	DemandNormal DemandMethod = "normal"
)

// Valid reports whether m is one of the known demand methods.
func (m DemandMethod) Valid() bool {
	return m == DemandBootstrap || m == DemandNormal
}

// Generator produces realized demand values. Safe for concurrent use;
// the underlying rand source is guarded so one generator can serve
// every session.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator backed by the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate draws one demand value from history using the given method.
// History is read-only; it is never reordered or mutated.
func (g *Generator) Generate(history []int, method DemandMethod) (int, error) {
	if len(history) == 0 {
		return 0, ErrInsufficientData
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch method {
	case DemandBootstrap:
		return history[g.rng.Intn(len(history))], nil

	case DemandNormal:
		mean, stdev := sampleStats(history)
		d := g.rng.NormFloat64()*stdev + mean
		return max(int(math.Round(d)), 0), nil

	default:
		return 0, errors.New("unknown demand method: " + string(method))
	}
}

// sampleStats returns the sample mean and sample standard deviation
// (n-1 divisor). Stdev is 0 for fewer than two points.
func sampleStats(history []int) (mean, stdev float64) {
	n := float64(len(history))
	var sum float64
	for _, v := range history {
		sum += float64(v)
	}
	mean = sum / n

	if len(history) < 2 {
		return mean, 0
	}

	var ss float64
	for _, v := range history {
		d := float64(v) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}
