// Package actorcritic implements an agent that runs actor-critic
// learning on a two-armed bandit task.
//
// The actor holds a policy parameter for each arm and chooses between
// arms with a softmax over those parameters. The critic holds a
// moving-average estimate of the environmental reward rate, which the
// actor uses as a baseline. The actor's parameters are decayed by a
// forgetting rate on every update, which keeps them from growing
// without bound.
package actorcritic

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// initialValue is the critic's estimate of the reward rate at the
// beginning of a session
const initialValue float64 = 0.5

// LeakyActorCritic implements an actor-critic agent with parameter
// forgetting for a two-armed bandit task
type LeakyActorCritic struct {
	alphaCritic      float64 // Critic learning rate
	alphaActorLearn  float64 // Actor learning rate
	alphaActorForget float64 // Actor forgetting rate

	theta []float64 // Actor's policy parameters
	v     float64   // Critic's estimate of the reward rate

	source rand.Source
}

// New returns a new LeakyActorCritic agent
func New(alphaCritic, alphaActorLearn, alphaActorForget float64,
	seed uint64) *LeakyActorCritic {
	agent := &LeakyActorCritic{
		alphaCritic:      alphaCritic,
		alphaActorLearn:  alphaActorLearn,
		alphaActorForget: alphaActorForget,
		source:           rand.NewSource(seed),
	}
	agent.NewSession()

	return agent
}

// NewSession resets the agent for the beginning of a new session
func (l *LeakyActorCritic) NewSession() {
	l.theta = make([]float64, environment.Arms)
	l.v = initialValue
}

// ChoiceProbs returns the agent's probability of choosing each arm,
// computed as a softmax over the actor's policy parameters
func (l *LeakyActorCritic) ChoiceProbs() mat.Vector {
	return mat.NewVecDense(len(l.theta), floatutils.Softmax(l.theta))
}

// SelectChoice samples an arm index from ChoiceProbs
func (l *LeakyActorCritic) SelectChoice() int {
	probs := mat.VecDenseCopyOf(l.ChoiceProbs())
	dist := distuv.NewCategorical(probs.RawVector().Data, l.source)

	return int(dist.Rand())
}

// Update updates the agent after one trial of the task.
//
// The actor's parameter for the chosen arm moves in the direction that
// increases the probability of choosing that arm again, scaled by the
// critic's prediction error and by one minus the probability of the
// chosen arm; the unchosen arm's parameter moves in the opposite
// direction. Both parameters are decayed by the forgetting rate. The
// probabilities used are those from before the update. The critic's
// estimate then moves toward the received reward.
//
// The caller must supply a choice in {0, 1}.
func (l *LeakyActorCritic) Update(choice int, reward float64) error {
	unchosen := 1 - choice
	predictionError := reward - l.v

	probs := l.ChoiceProbs()
	l.theta[choice] = (1-l.alphaActorForget)*l.theta[choice] +
		l.alphaActorLearn*predictionError*(1-probs.AtVec(choice))
	l.theta[unchosen] = (1-l.alphaActorForget)*l.theta[unchosen] -
		l.alphaActorLearn*predictionError*probs.AtVec(unchosen)

	l.v = (1-l.alphaCritic)*l.v + l.alphaCritic*reward

	return nil
}

// CriticValue returns the critic's current estimate of the
// environmental reward rate
func (l *LeakyActorCritic) CriticValue() float64 {
	return l.v
}

// Theta returns the actor's current policy parameters
func (l *LeakyActorCritic) Theta() mat.Vector {
	return mat.NewVecDense(len(l.theta), append([]float64(nil), l.theta...))
}
