package qlearning

import (
	"math"
	"testing"
)

const tolerance float64 = 1e-12

func TestChoiceProbsFormDistribution(t *testing.T) {
	alphas := []float64{0.01, 0.1, 0.5, 0.9}
	betas := []float64{0.0, 0.5, 1.0, 3.0, 10.0}

	for _, alpha := range alphas {
		for _, beta := range betas {
			agent := New(alpha, beta, 14)

			probs := agent.ChoiceProbs()
			sum := probs.AtVec(0) + probs.AtVec(1)
			if math.Abs(sum-1.0) > tolerance {
				t.Errorf("alpha %v beta %v: choice probs sum to %v, "+
					"expected 1", alpha, beta, sum)
			}
			for i := 0; i < probs.Len(); i++ {
				if probs.AtVec(i) <= 0 || probs.AtVec(i) >= 1 {
					t.Errorf("alpha %v beta %v: choice prob %v = %v not in "+
						"(0, 1)", alpha, beta, i, probs.AtVec(i))
				}
			}
		}
	}
}

func TestUpdateMovesChosenValue(t *testing.T) {
	for _, alpha := range []float64{0.05, 0.3, 0.95} {
		agent := New(alpha, 1.0, 14)

		before := agent.Values()
		if err := agent.Update(0, 1.0); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		after := agent.Values()

		if after.AtVec(0) <= before.AtVec(0) {
			t.Errorf("alpha %v: chosen value did not increase after "+
				"reward: %v -> %v", alpha, before.AtVec(0), after.AtVec(0))
		}
		if after.AtVec(1) != before.AtVec(1) {
			t.Errorf("alpha %v: unchosen value changed: %v -> %v", alpha,
				before.AtVec(1), after.AtVec(1))
		}

		before = agent.Values()
		if err := agent.Update(0, 0.0); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		after = agent.Values()

		if after.AtVec(0) >= before.AtVec(0) {
			t.Errorf("alpha %v: chosen value did not decrease after "+
				"omission: %v -> %v", alpha, before.AtVec(0), after.AtVec(0))
		}
	}
}

func TestNewSessionResetsValues(t *testing.T) {
	agent := New(0.3, 1.0, 14)
	agent.Update(0, 1.0)
	agent.Update(1, 0.0)

	agent.NewSession()
	values := agent.Values()
	for i := 0; i < values.Len(); i++ {
		if values.AtVec(i) != 0.5 {
			t.Errorf("value %v = %v after NewSession, expected 0.5", i,
				values.AtVec(i))
		}
	}
}

func TestSelectChoiceInRange(t *testing.T) {
	agent := New(0.3, 2.0, 14)
	for i := 0; i < 100; i++ {
		choice := agent.SelectChoice()
		if choice != 0 && choice != 1 {
			t.Fatalf("choice %v not in {0, 1}", choice)
		}
	}
}
