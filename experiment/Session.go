package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BanditSession is an immutable record of a completed behavioral
// session. Choices and Rewards hold the per-trial choice and reward
// (both 0 or 1), and RewardProbs holds, for each trial, the
// environment's reward probabilities as they were before that trial.
//
// A BanditSession is created once by an experiment at the end of a
// run and never mutated afterwards.
type BanditSession struct {
	Choices     *mat.VecDense // NTrials
	Rewards     *mat.VecDense // NTrials
	RewardProbs *mat.Dense    // NTrials x arms
	NTrials     int
}

func (b BanditSession) String() string {
	str := "BanditSession  |  Trials: %v  |  Total Reward: %v"

	total := 0.0
	for i := 0; i < b.Rewards.Len(); i++ {
		total += b.Rewards.AtVec(i)
	}
	return fmt.Sprintf(str, b.NTrials, total)
}
