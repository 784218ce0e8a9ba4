// Package rnnpolicy implements an agent that runs a trained recurrent
// network as a stateful choice policy on a two-armed bandit task.
package rnnpolicy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// RNNPolicy wraps a trained recurrent network as an agent. The
// network is constructed for a single timestep at batch size 1 and
// stepped one trial at a time.
//
// The cached input to the network is the previous trial's choice and
// reward, and the cached hidden state summarizes the session so far.
// The hidden state advances only during Update, never during choice
// selection: a choice is always sampled from the state as it was
// before the current trial's outcome was seen.
type RNNPolicy struct {
	net network.RNN
	vm  G.VM

	xs     []float64 // Previous choice and reward
	hidden []float64 // Current hidden state

	source rand.Source
}

// New returns a new RNNPolicy running the network constructed by
// makeNet with parameter values params. If params is nil, the
// factory's own initialization is kept, which is mainly useful for
// testing.
func New(makeNet network.Factory, params []*tensor.Dense,
	seed uint64) (*RNNPolicy, error) {
	g := G.NewGraph()
	net, err := makeNet(g, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("new: could not construct network: %v", err)
	}

	if net.Features() != 2 {
		return nil, fmt.Errorf("new: network takes %v input features but "+
			"a bandit policy requires 2 (previous choice, previous reward)",
			net.Features())
	}

	if params != nil {
		if err := net.SetParams(params); err != nil {
			return nil, fmt.Errorf("new: could not set parameters: %v", err)
		}
	}

	p := &RNNPolicy{
		net:    net,
		vm:     G.NewTapeMachine(g),
		source: rand.NewSource(seed),
	}
	p.NewSession()

	return p, nil
}

// NewSession resets the agent for the beginning of a new session,
// restoring the initial hidden state and clearing the cached input
func (p *RNNPolicy) NewSession() {
	p.xs = make([]float64, p.net.Features())
	p.hidden = make([]float64, p.net.HiddenSize())
}

// ChoiceProbs runs one forward step of the network on the cached
// input and hidden state and returns the softmax of the output scores
// over the two arms. The cached hidden state is left untouched.
func (p *RNNPolicy) ChoiceProbs() mat.Vector {
	outputs := p.step()

	return mat.NewVecDense(environment.Arms,
		floatutils.Softmax(outputs[:environment.Arms]))
}

// SelectChoice samples an arm index from ChoiceProbs
func (p *RNNPolicy) SelectChoice() int {
	probs := mat.VecDenseCopyOf(p.ChoiceProbs())
	dist := distuv.NewCategorical(probs.RawVector().Data, p.source)

	return int(dist.Rand())
}

// Update sets the network input to the current trial's choice and
// reward and advances the hidden state by re-running the forward
// step
func (p *RNNPolicy) Update(choice int, reward float64) error {
	p.xs[0] = float64(choice)
	p.xs[1] = reward

	p.step()
	hidden := p.net.Hidden().Data().([]float64)
	copy(p.hidden, hidden)

	return nil
}

// step runs one forward step of the network on the cached input and
// hidden state, returning the output scores. step panics on VM
// failures, which indicate a malformed network rather than a
// recoverable condition.
func (p *RNNPolicy) step() []float64 {
	if err := p.net.SetInput(append([]float64(nil), p.xs...)); err != nil {
		panic(fmt.Sprintf("step: could not set input: %v", err))
	}
	if err := p.net.SetHidden(append([]float64(nil), p.hidden...)); err != nil {
		panic(fmt.Sprintf("step: could not set hidden state: %v", err))
	}

	if err := p.vm.RunAll(); err != nil {
		panic(fmt.Sprintf("step: could not run network: %v", err))
	}
	outputs := append([]float64(nil),
		p.net.Output().Data().([]float64)...)
	p.vm.Reset()

	return outputs
}

// Close closes the agent's underlying virtual machine. The agent
// cannot be used after it is closed.
func (p *RNNPolicy) Close() error {
	return p.vm.Close()
}
