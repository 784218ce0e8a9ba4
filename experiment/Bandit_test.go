package experiment

import (
	"testing"

	"github.com/samuelfneumann/gobandit/agent/qlearning"
	"github.com/samuelfneumann/gobandit/environment/bandit"
	"gonum.org/v1/gonum/mat"
)

func TestRunProducesFullSession(t *testing.T) {
	nTrials := 100

	env, err := bandit.NewDrift(0.1, 14)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	agent := qlearning.New(0.3, 3.0, 23)

	session, err := NewBandit(env, agent, nTrials).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if session.NTrials != nTrials {
		t.Errorf("session has %v trials, expected %v", session.NTrials,
			nTrials)
	}
	if session.Choices.Len() != nTrials || session.Rewards.Len() != nTrials {
		t.Fatalf("session vectors have lengths %v and %v, expected %v",
			session.Choices.Len(), session.Rewards.Len(), nTrials)
	}
	rows, cols := session.RewardProbs.Dims()
	if rows != nTrials || cols != 2 {
		t.Fatalf("reward probs are %v x %v, expected %v x 2", rows, cols,
			nTrials)
	}

	for i := 0; i < nTrials; i++ {
		if c := session.Choices.AtVec(i); c != 0 && c != 1 {
			t.Errorf("choice %v = %v, not in {0, 1}", i, c)
		}
		if r := session.Rewards.AtVec(i); r != 0 && r != 1 {
			t.Errorf("reward %v = %v, not in {0, 1}", i, r)
		}
		for j := 0; j < cols; j++ {
			if p := session.RewardProbs.At(i, j); p < 0 || p > 1 {
				t.Errorf("reward prob (%v, %v) = %v outside [0, 1]", i, j, p)
			}
		}
	}
}

func TestRunRecordsProbsBeforeTrial(t *testing.T) {
	// With a flip probability of 1 the environment flips after every
	// trial, so the recorded probabilities must alternate, starting
	// from the environment's initial assignment.
	env := bandit.NewFlips(1.0, 0.8, 0.2, 14)
	agent := qlearning.New(0.3, 1.0, 23)

	initial := env.RewardProbs().AtVec(0)

	session, err := NewBandit(env, agent, 10).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i := 0; i < session.NTrials; i++ {
		want := initial
		if i%2 == 1 {
			want = 1.0 - initial
		}
		if got := session.RewardProbs.At(i, 0); got != want {
			t.Errorf("trial %v: recorded prob %v, expected %v", i, got, want)
		}
	}
}

func TestRunPropagatesEnvironmentFailure(t *testing.T) {
	env, err := bandit.NewDrift(0.1, 14)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	if _, err := NewBandit(env, badAgent{}, 10).Run(); err == nil {
		t.Error("expected the environment failure to propagate")
	}
}

// badAgent always chooses an invalid arm
type badAgent struct{}

func (badAgent) NewSession()                             {}
func (badAgent) ChoiceProbs() mat.Vector                 { return nil }
func (badAgent) SelectChoice() int                       { return 2 }
func (badAgent) Update(choice int, reward float64) error { return nil }
