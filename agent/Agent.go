// Package agent defines an agent interface
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of a behavioral agent
// for a two-armed bandit task.
//
// An Agent owns a small amount of internal state (value estimates,
// policy parameters, or a recurrent hidden state) which is mutated
// only by Update and restored to its initial value by NewSession. The
// choice on a trial is always sampled from the state as it was before
// that trial's outcome is incorporated.
type Agent interface {
	// NewSession resets the agent for the beginning of a new session
	NewSession()

	// ChoiceProbs returns the agent's current probability of choosing
	// each arm. The returned probabilities sum to 1.
	ChoiceProbs() mat.Vector

	// SelectChoice samples an arm index from ChoiceProbs
	SelectChoice() int

	// Update updates the agent's internal state after one trial of
	// the task. The choice parameter is the arm chosen by the agent
	// (0 or 1) and reward is the reward received (0 or 1).
	Update(choice int, reward float64) error
}
