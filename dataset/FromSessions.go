package dataset

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/experiment"
	"gorgonia.org/tensor"
)

// FromSessions builds a Dataset from a set of completed behavioral
// sessions, one episode per session. All sessions must have the same
// number of trials.
//
// The input at each timestep is the previous trial's choice and
// reward, with zeros on the first timestep; the target at each
// timestep is the current trial's choice. This is the standard
// encoding for next-choice prediction: the network sees the outcome
// of trial t-1 when predicting the choice on trial t.
func FromSessions(sessions []experiment.BanditSession,
	batchSize int) (*Dataset, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("fromsessions: no sessions given")
	}

	nTrials := sessions[0].NTrials
	for i, s := range sessions {
		if s.NTrials != nTrials {
			return nil, fmt.Errorf("fromsessions: session %v has %v trials "+
				"but session 0 has %v", i, s.NTrials, nTrials)
		}
	}

	nEpisodes := len(sessions)
	const features int = 2 // Previous choice, previous reward

	xsBacking := make([]float64, nTrials*nEpisodes*features)
	ysBacking := make([]float64, nTrials*nEpisodes)

	at := func(t, e, f, nFeatures int) int {
		return t*nEpisodes*nFeatures + e*nFeatures + f
	}

	for e, s := range sessions {
		for t := 0; t < nTrials; t++ {
			if t > 0 {
				xsBacking[at(t, e, 0, features)] = s.Choices.AtVec(t - 1)
				xsBacking[at(t, e, 1, features)] = s.Rewards.AtVec(t - 1)
			}
			ysBacking[at(t, e, 0, 1)] = s.Choices.AtVec(t)
		}
	}

	xs := tensor.New(
		tensor.WithShape(nTrials, nEpisodes, features),
		tensor.WithBacking(xsBacking),
	)
	ys := tensor.New(
		tensor.WithShape(nTrials, nEpisodes, 1),
		tensor.WithBacking(ysBacking),
	)

	return New(xs, ys, batchSize)
}
