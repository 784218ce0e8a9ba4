package main

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/agent/qlearning"
	"github.com/samuelfneumann/gobandit/agent/rnnpolicy"
	"github.com/samuelfneumann/gobandit/dataset"
	"github.com/samuelfneumann/gobandit/environment/bandit"
	"github.com/samuelfneumann/gobandit/experiment"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/samuelfneumann/gobandit/initwfn"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/solver"
	"github.com/samuelfneumann/gobandit/train"
)

func main() {
	var seed uint64 = 192382

	// Generate behavioral sessions from a Q-learning agent on a
	// drifting bandit
	nSessions := 32
	nTrials := 200

	sessions := make([]experiment.BanditSession, nSessions)
	for i := range sessions {
		env, err := bandit.NewDrift(0.05, seed+uint64(i))
		if err != nil {
			panic(err)
		}
		agent := qlearning.New(0.3, 3.0, seed+uint64(i)+1)

		rewards := tracker.NewReward(fmt.Sprintf("./reward_%d.bin", i))
		e := experiment.NewBandit(env, agent, nTrials, rewards)
		if sessions[i], err = e.Run(); err != nil {
			panic(err)
		}
		e.Save()
	}
	fmt.Println("Generated", nSessions, "sessions:", sessions[0])

	// Fit a recurrent network to the generated behavior
	data, err := dataset.FromSessions(sessions, 8)
	if err != nil {
		panic(err)
	}

	init, err := initwfn.NewGaussian(0.0, 0.1, seed)
	if err != nil {
		panic(err)
	}
	makeNet := network.NewElman(2, 16, 2, network.TanH(), init.InitWFn())

	adam, err := solver.NewDefaultAdam(1e-3, data.BatchSize())
	if err != nil {
		panic(err)
	}

	params, losses, err := train.Train(makeNet, data, train.Config{
		NSteps:   1000,
		Loss:     train.Categorical,
		Solver:   adam,
		Progress: true,
	}, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Trained for 1000 steps, final loss %.2e\n",
		losses[len(losses)-1])

	// Run the trained network as an agent on a fresh environment
	env, err := bandit.NewDrift(0.05, seed)
	if err != nil {
		panic(err)
	}
	netAgent, err := rnnpolicy.New(makeNet, params, seed)
	if err != nil {
		panic(err)
	}
	defer netAgent.Close()

	session, err := experiment.NewBandit(env, netAgent, nTrials).Run()
	if err != nil {
		panic(err)
	}
	fmt.Println("Network-driven session:", session)
}
