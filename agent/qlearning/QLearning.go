// Package qlearning implements an agent that runs simple Q-learning
// on a two-armed bandit task.
//
// The agent keeps a running estimate of the reward probability on each
// arm and chooses between arms with a softmax over those estimates.
package qlearning

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// initialValue is the value estimate assigned to each arm at the
// beginning of a session
const initialValue float64 = 0.5

// QLearning implements a Q-learning agent for a two-armed bandit task
type QLearning struct {
	alpha float64 // Learning rate
	beta  float64 // Softmax temperature
	q     []float64

	source rand.Source
}

// New returns a new QLearning agent with learning rate alpha and
// softmax temperature beta
func New(alpha, beta float64, seed uint64) *QLearning {
	agent := &QLearning{
		alpha:  alpha,
		beta:   beta,
		source: rand.NewSource(seed),
	}
	agent.NewSession()

	return agent
}

// NewSession resets the agent for the beginning of a new session
func (q *QLearning) NewSession() {
	q.q = make([]float64, environment.Arms)
	for i := range q.q {
		q.q[i] = initialValue
	}
}

// ChoiceProbs returns the agent's probability of choosing each arm,
// computed as a softmax over the value estimates scaled by the
// softmax temperature
func (q *QLearning) ChoiceProbs() mat.Vector {
	scaled := make([]float64, len(q.q))
	for i, value := range q.q {
		scaled[i] = q.beta * value
	}

	return mat.NewVecDense(len(scaled), floatutils.Softmax(scaled))
}

// SelectChoice samples an arm index from ChoiceProbs
func (q *QLearning) SelectChoice() int {
	probs := mat.VecDenseCopyOf(q.ChoiceProbs())
	dist := distuv.NewCategorical(probs.RawVector().Data, q.source)

	return int(dist.Rand())
}

// Update updates the agent after one trial of the task. The value
// estimate of the chosen arm moves toward the received reward; the
// unchosen arm is untouched. The caller must supply a choice in
// {0, 1}.
func (q *QLearning) Update(choice int, reward float64) error {
	q.q[choice] = (1-q.alpha)*q.q[choice] + q.alpha*reward
	return nil
}

// Values returns the agent's current value estimate for each arm
func (q *QLearning) Values() mat.Vector {
	return mat.NewVecDense(len(q.q), append([]float64(nil), q.q...))
}
