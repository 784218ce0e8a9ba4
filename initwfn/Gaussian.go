package initwfn

import (
	"golang.org/x/exp/rand"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GaussianConfig implements a configuration of Gaussian weight
// initialization with an explicit random seed, so that network
// initialization is reproducible. Gorgonia's built-in Gaussian
// initializer draws from a globally seeded source, which this config
// replaces with its own.
type GaussianConfig struct {
	Mean   float64
	Stddev float64
	Seed   uint64
}

// NewGaussian returns a new seeded Gaussian weight initializer
func NewGaussian(mean, stddev float64, seed uint64) (*InitWFn, error) {
	config := GaussianConfig{
		Mean:   mean,
		Stddev: stddev,
		Seed:   seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by the
// configuration.
func (g GaussianConfig) Type() Type {
	return Gaussian
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn. The returned InitWFn draws from a single random stream
// across calls, so that each initialized weight tensor gets fresh
// draws.
func (g GaussianConfig) Create() G.InitWFn {
	rng := rand.New(rand.NewSource(g.Seed))

	return func(dt tensor.Dtype, s ...int) interface{} {
		size := tensor.Shape(s).TotalSize()
		data := make([]float64, size)
		for i := range data {
			data[i] = rng.NormFloat64()*g.Stddev + g.Mean
		}
		return data
	}
}
