// Package bandit implements two-armed bandit environments with
// non-stationary reward probabilities
package bandit

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gobandit/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Flips implements a two-armed bandit task whose reward probabilities
// flip in blocks. One arm is assigned a high reward probability and
// the other a low one, according to the parity of a binary block
// indicator. At the end of each trial the block may flip, swapping
// which arm is the high-probability arm on future trials.
type Flips struct {
	blockFlipProb  float64
	rewardProbHigh float64
	rewardProbLow  float64

	block       int
	rewardProbs *mat.VecDense

	flip   distuv.Bernoulli
	reward func(p float64) float64
}

// NewFlips returns a new Flips environment. The blockFlipProb
// parameter gives the per-trial probability that the block flips,
// while rewardProbHigh and rewardProbLow give the reward probabilities
// assigned to the high and low arms within a block.
func NewFlips(blockFlipProb, rewardProbHigh, rewardProbLow float64,
	seed uint64) *Flips {
	source := rand.NewSource(seed)

	f := &Flips{
		blockFlipProb:  blockFlipProb,
		rewardProbHigh: rewardProbHigh,
		rewardProbLow:  rewardProbLow,
		rewardProbs:    mat.NewVecDense(environment.Arms, nil),
		flip:           distuv.Bernoulli{P: blockFlipProb, Src: source},
	}
	f.reward = func(p float64) float64 {
		return distuv.Bernoulli{P: p, Src: source}.Rand()
	}

	// Choose a random block to start in, then set up the first block
	f.block = int(distuv.Bernoulli{P: 0.5, Src: source}.Rand())
	f.newBlock()

	return f
}

// newBlock flips the block and assigns the reward probabilities
// according to the new block parity
func (f *Flips) newBlock() {
	f.block = 1 - f.block

	if f.block == 1 {
		f.rewardProbs.SetVec(0, f.rewardProbHigh)
		f.rewardProbs.SetVec(1, f.rewardProbLow)
	} else {
		f.rewardProbs.SetVec(0, f.rewardProbLow)
		f.rewardProbs.SetVec(1, f.rewardProbHigh)
	}
}

// Step runs a single trial of the task. The reward is sampled with
// the probability associated with the chosen arm. The block flip check
// happens after the reward is sampled, so a flip only affects the
// reward probabilities of future trials.
//
// Step panics if choice is not in {0, 1}.
func (f *Flips) Step(choice int) (float64, error) {
	reward := f.reward(f.rewardProbs.AtVec(choice))

	if f.flip.Rand() != 0 {
		f.newBlock()
	}

	return reward, nil
}

// RewardProbs returns the probability of reward on each arm for the
// next trial
func (f *Flips) RewardProbs() mat.Vector {
	probs := mat.NewVecDense(f.rewardProbs.Len(), nil)
	probs.CloneFromVec(f.rewardProbs)
	return probs
}
