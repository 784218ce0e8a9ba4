package bandit

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

// probBounds are the legal bounds for a reward probability
var probBounds r1.Interval = r1.Interval{Min: 0.0, Max: 1.0}

// Drift implements a two-armed bandit task with drifting reward
// probabilities. The reward probability of each arm is initialized
// uniformly at random in [0, 1). On each trial, independent Gaussian
// noise is added to each probability, and the probabilities are
// clipped back to the interval [0, 1].
type Drift struct {
	sigma       float64
	rewardProbs *mat.VecDense

	drift  distuv.Normal
	reward func(p float64) float64
}

// NewDrift returns a new Drift environment with drift magnitude sigma.
// NewDrift returns an error if sigma is negative.
func NewDrift(sigma float64, seed uint64) (*Drift, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("newdrift: sigma was %v, but must not be "+
			"negative", sigma)
	}

	source := rand.NewSource(seed)

	// Sample the starting reward probabilities
	uniform := distuv.Uniform{Min: 0.0, Max: 1.0, Src: source}
	rewardProbs := mat.NewVecDense(environment.Arms, nil)
	for i := 0; i < rewardProbs.Len(); i++ {
		rewardProbs.SetVec(i, uniform.Rand())
	}

	d := &Drift{
		sigma:       sigma,
		rewardProbs: rewardProbs,
		drift:       distuv.Normal{Mu: 0.0, Sigma: sigma, Src: source},
	}
	d.reward = func(p float64) float64 {
		return distuv.Bernoulli{P: p, Src: source}.Rand()
	}

	return d, nil
}

// Step runs a single trial of the task. The reward is sampled with
// the probability associated with the chosen arm, then both reward
// probabilities drift. Step returns an error if choice is not in
// {0, 1}.
func (d *Drift) Step(choice int) (float64, error) {
	if choice != 0 && choice != 1 {
		return 0, fmt.Errorf("step: choice given was %v, but must be "+
			"either 0 or 1", choice)
	}

	reward := d.reward(d.rewardProbs.AtVec(choice))

	// Drift the reward probabilities, fixing any that have left [0, 1]
	for i := 0; i < d.rewardProbs.Len(); i++ {
		prob := d.rewardProbs.AtVec(i) + d.drift.Rand()
		d.rewardProbs.SetVec(i, floatutils.ClipInterval(prob, probBounds))
	}

	return reward, nil
}

// RewardProbs returns the probability of reward on each arm for the
// next trial
func (d *Drift) RewardProbs() mat.Vector {
	probs := mat.NewVecDense(d.rewardProbs.Len(), nil)
	probs.CloneFromVec(d.rewardProbs)
	return probs
}

// Sigma returns the magnitude of the drift
func (d *Drift) Sigma() float64 {
	return d.sigma
}
