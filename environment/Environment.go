// Package environment outlines the interfaces needed to implement
// concrete bandit environments
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Arms is the number of arms in a two-armed bandit task
const Arms int = 2

// Environment implements a simulated two-armed bandit task. An
// Environment owns its internal state exclusively. Calls to Step may
// mutate that state, preparing the reward probabilities for the next
// trial.
type Environment interface {
	// Step runs a single trial of the task given the choice made by
	// an agent and returns the sampled reward (0 or 1)
	Step(choice int) (float64, error)

	// RewardProbs returns the probability of reward on each arm for
	// the next trial
	RewardProbs() mat.Vector
}
