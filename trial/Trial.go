// Package trial implements single trials of the agent-environment
// interaction in a bandit task
package trial

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Trial packages together a single trial of a bandit task. RewardProbs
// holds the environment's reward probabilities as they were before the
// trial was run, matching what an observer of the task would have been
// able to record.
type Trial struct {
	Number      int
	Choice      int
	Reward      float64
	RewardProbs mat.Vector
}

// New returns a new Trial
func New(number, choice int, reward float64, probs mat.Vector) Trial {
	return Trial{number, choice, reward, probs}
}

func (t Trial) String() string {
	str := "Trial %v  |  Choice: %v  |  Reward: %v  |  Reward Probs: %v"

	return fmt.Sprintf(str, t.Number, t.Choice, t.Reward,
		mat.Formatted(t.RewardProbs.T()))
}
