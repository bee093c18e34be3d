package instance

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
)

var (
	// ErrTooFewVertices is returned by Generate when N < 0.
	ErrTooFewVertices = errors.New("vertex count must not be negative")

	// ErrInvalidDensity is returned by Generate when Density is outside [0, 1].
	ErrInvalidDensity = errors.New("edge density must be in [0, 1]")

	// ErrInvalidRange is returned by Generate when a weight or value range is empty.
	ErrInvalidRange = errors.New("invalid weight or value range")
)

// Default generator parameters.
const (
	DefaultGenerateSeed  = uint64(42)
	DefaultMinWeight     = 1
	DefaultMaxWeight     = 10
	DefaultMaxValue      = 20
	DefaultCapacityRatio = 0.3
)

// GenerateOptions configures random instance generation.
type GenerateOptions struct {
	N             int     // number of vertices
	Density       float64 // probability of each unordered pair being an edge
	MinWeight     int     // inclusive lower bound for weights (≥ 1)
	MaxWeight     int     // inclusive upper bound for weights
	MaxValue      int     // inclusive upper bound for values (lower bound is 0)
	CapacityRatio float64 // capacity as a fraction of the total weight
	Seed          uint64  // RNG seed; 0 selects DefaultGenerateSeed
}

func (o *GenerateOptions) setDefaults() {
	if o.MinWeight == 0 {
		o.MinWeight = DefaultMinWeight
	}
	if o.MaxWeight == 0 {
		o.MaxWeight = DefaultMaxWeight
	}
	if o.MaxValue == 0 {
		o.MaxValue = DefaultMaxValue
	}
	if o.CapacityRatio == 0 {
		o.CapacityRatio = DefaultCapacityRatio
	}
	if o.Seed == 0 {
		o.Seed = DefaultGenerateSeed
	}
}

// Generate samples a random instance: vertex i is named "v<i>", weights are
// uniform in [MinWeight, MaxWeight], values uniform in [0, MaxValue], and
// each unordered pair {i, j} with i < j becomes an edge with probability
// Density. Pairs are tried in a stable order (i asc, then j asc), so the
// output is fully determined by the options.
func Generate(opts GenerateOptions) (*Instance, error) {
	opts.setDefaults()
	if opts.N < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewVertices, opts.N)
	}
	if opts.Density < 0 || opts.Density > 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidDensity, opts.Density)
	}
	if opts.MinWeight < 1 || opts.MaxWeight < opts.MinWeight || opts.MaxValue < 0 {
		return nil, fmt.Errorf("%w: weight [%d,%d], value [0,%d]",
			ErrInvalidRange, opts.MinWeight, opts.MaxWeight, opts.MaxValue)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	g := New(fmt.Sprintf("random-%d-%g-%d", opts.N, opts.Density, opts.Seed), 0)

	total := 0
	for i := 0; i < opts.N; i++ {
		w := opts.MinWeight + rng.IntN(opts.MaxWeight-opts.MinWeight+1)
		v := rng.IntN(opts.MaxValue + 1)
		total += w
		if err := g.AddVertex(Vertex{ID: "v" + strconv.Itoa(i), Weight: w, Value: v}); err != nil {
			return nil, err
		}
	}
	for i := 0; i < opts.N; i++ {
		for j := i + 1; j < opts.N; j++ {
			if rng.Float64() < opts.Density {
				if err := g.AddEdge(g.vertices[i].ID, g.vertices[j].ID); err != nil {
					return nil, err
				}
			}
		}
	}
	g.Capacity = int(float64(total) * opts.CapacityRatio)
	return g, nil
}
