package tracker

import (
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gobandit/trial"
	"gonum.org/v1/gonum/mat"
)

// newTrial returns a trial with fixed reward probabilities for
// tracking
func newTrial(number, choice int, reward float64) trial.Trial {
	probs := mat.NewVecDense(2, []float64{0.8, 0.2})
	return trial.New(number, choice, reward, probs)
}

func TestRewardTrackerRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reward.bin")
	tracker := NewReward(filename)

	rewards := []float64{1, 0, 1, 1, 0}
	for i, r := range rewards {
		tracker.Track(newTrial(i, i%2, r))
	}
	tracker.Save()

	// The tracker stores the running cumulative reward
	want := []float64{1, 1, 2, 3, 3}
	got := LoadData(filename)
	if len(got) != len(want) {
		t.Fatalf("loaded %v values, expected %v", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cumulative reward %v = %v, expected %v", i, got[i],
				want[i])
		}
	}
}

func TestChoiceTrackerRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "choice.bin")
	tracker := NewChoice(filename)

	choices := []int{0, 1, 1, 0}
	for i, c := range choices {
		tracker.Track(newTrial(i, c, 1.0))
	}
	tracker.Save()

	got := LoadData(filename)
	if len(got) != len(choices) {
		t.Fatalf("loaded %v values, expected %v", len(got), len(choices))
	}
	for i, c := range choices {
		if got[i] != float64(c) {
			t.Errorf("choice %v = %v, expected %v", i, got[i], c)
		}
	}
}
