// Package experiment implements functionality for running behavioral
// sessions of agents on bandit tasks
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/agent"
	env "github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/samuelfneumann/gobandit/trial"
	"gonum.org/v1/gonum/mat"
)

// Bandit runs a single agent on a single bandit environment for a
// fixed number of trials, producing a BanditSession.
type Bandit struct {
	env.Environment
	agent.Agent
	nTrials  int
	trackers []tracker.Tracker
}

// NewBandit creates and returns a new bandit experiment on a given
// environment with a given agent. The nTrials parameter determines how
// many trials the session is run for, and the t parameter is a slice
// of tracker.Tracker which determine what data is saved.
func NewBandit(e env.Environment, a agent.Agent, nTrials int,
	t ...tracker.Tracker) *Bandit {
	return &Bandit{e, a, nTrials, t}
}

// Register registers a tracker.Tracker with an experiment so that data
// generated during the experiment can be tracked and saved
func (b *Bandit) Register(t tracker.Tracker) {
	b.trackers = append(b.trackers, t)
}

// Run runs the session for all trials and returns the completed
// session record. On each trial the environment's reward
// probabilities are recorded first, then the agent makes a choice,
// then the environment computes a reward (possibly mutating its state
// for the next trial), and finally the agent learns from the outcome.
//
// A failure on any trial aborts the run and is returned to the
// caller.
func (b *Bandit) Run() (BanditSession, error) {
	choices := mat.NewVecDense(b.nTrials, nil)
	rewards := mat.NewVecDense(b.nTrials, nil)
	rewardProbs := mat.NewDense(b.nTrials, env.Arms, nil)

	for t := 0; t < b.nTrials; t++ {
		// First record the environment's reward probabilities
		probs := b.Environment.RewardProbs()
		rewardProbs.SetRow(t, []float64{probs.AtVec(0), probs.AtVec(1)})

		// Then the agent makes a choice
		choice := b.Agent.SelectChoice()

		// Then the environment computes a reward
		reward, err := b.Environment.Step(choice)
		if err != nil {
			return BanditSession{}, fmt.Errorf("run: could not step "+
				"environment on trial %v: %v", t, err)
		}

		// Finally the agent learns
		if err := b.Agent.Update(choice, reward); err != nil {
			return BanditSession{}, fmt.Errorf("run: could not update "+
				"agent on trial %v: %v", t, err)
		}

		// Log the choice and reward
		choices.SetVec(t, float64(choice))
		rewards.SetVec(t, reward)
		b.track(trial.New(t, choice, reward, probs))
	}

	return BanditSession{
		Choices:     choices,
		Rewards:     rewards,
		RewardProbs: rewardProbs,
		NTrials:     b.nTrials,
	}, nil
}

// Save saves all the data cached by the Trackers to disk
func (b *Bandit) Save() {
	for _, t := range b.trackers {
		t.Save()
	}
}

// track tracks the current trial by caching its data in each tracker
func (b *Bandit) track(t trial.Trial) {
	for _, tr := range b.trackers {
		tr.Track(t)
	}
}
