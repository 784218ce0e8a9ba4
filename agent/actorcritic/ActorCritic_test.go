package actorcritic

import (
	"math"
	"testing"
)

const tolerance float64 = 1e-12

func TestChoiceProbsFormDistribution(t *testing.T) {
	agent := New(0.1, 0.3, 0.01, 14)

	probs := agent.ChoiceProbs()
	sum := probs.AtVec(0) + probs.AtVec(1)
	if math.Abs(sum-1.0) > tolerance {
		t.Errorf("choice probs sum to %v, expected 1", sum)
	}

	// With theta initialized to zero both arms are equally likely
	if math.Abs(probs.AtVec(0)-0.5) > tolerance {
		t.Errorf("initial choice prob = %v, expected 0.5", probs.AtVec(0))
	}
}

func TestUpdateMovesActorAndCritic(t *testing.T) {
	agent := New(0.1, 0.3, 0.01, 14)

	// Reward exceeds the critic's initial estimate of 0.5, so the
	// chosen arm's parameter should rise and the unchosen arm's fall
	if err := agent.Update(0, 1.0); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	theta := agent.Theta()
	if theta.AtVec(0) <= 0 {
		t.Errorf("chosen theta = %v, expected > 0", theta.AtVec(0))
	}
	if theta.AtVec(1) >= 0 {
		t.Errorf("unchosen theta = %v, expected < 0", theta.AtVec(1))
	}

	// The critic moves toward the reward: v = 0.9*0.5 + 0.1*1
	if math.Abs(agent.CriticValue()-0.55) > tolerance {
		t.Errorf("critic value = %v, expected 0.55", agent.CriticValue())
	}
}

func TestUpdateOmissionLowersChosenTheta(t *testing.T) {
	agent := New(0.1, 0.3, 0.01, 14)

	if err := agent.Update(1, 0.0); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	theta := agent.Theta()
	if theta.AtVec(1) >= 0 {
		t.Errorf("chosen theta = %v after omission, expected < 0",
			theta.AtVec(1))
	}
	if theta.AtVec(0) <= 0 {
		t.Errorf("unchosen theta = %v after omission, expected > 0",
			theta.AtVec(0))
	}
}

func TestNewSessionResetsState(t *testing.T) {
	agent := New(0.1, 0.3, 0.01, 14)
	agent.Update(0, 1.0)
	agent.Update(0, 1.0)

	agent.NewSession()

	theta := agent.Theta()
	if theta.AtVec(0) != 0 || theta.AtVec(1) != 0 {
		t.Errorf("theta = %v after NewSession, expected zeros", theta)
	}
	if agent.CriticValue() != 0.5 {
		t.Errorf("critic value = %v after NewSession, expected 0.5",
			agent.CriticValue())
	}
}
