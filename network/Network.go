// Package network implements recurrent neural networks for modeling
// behavioral sequences
package network

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// RNN implements a recurrent sequence network unrolled over a fixed
// number of timesteps for a fixed batch size.
//
// The network's input is a tensor of shape
// (timesteps, batch size, features) and its prediction is the stack
// of per-timestep outputs, of shape (timesteps, batch size, outputs).
// The hidden state at the first timestep enters as an input to the
// computational graph (zeros unless SetHidden is called) and the
// hidden state after the final timestep can be read back with
// Hidden(). Output and Hidden values are only valid after the
// network's graph has been run on a VM.
type RNN interface {
	Graph() *G.ExprGraph
	Timesteps() int
	BatchSize() int
	Features() int
	Outputs() int
	HiddenSize() int

	// SetInput sets the value of the input node before running the
	// graph. Inputs should be constructed in row major order with
	// shape (timesteps, batch size, features).
	SetInput([]float64) error

	// SetHidden sets the hidden state for the first timestep. Inputs
	// should be constructed in row major order with shape
	// (batch size, hidden size).
	SetHidden([]float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Prediction() *G.Node
	Output() G.Value
	Hidden() G.Value

	// Params returns a copy of the network's current parameter
	// values, in the same order as Learnables
	Params() []*tensor.Dense

	// SetParams sets the network's parameter values from a slice in
	// the same order as Learnables
	SetParams([]*tensor.Dense) error
}

// Factory constructs an RNN on a graph, unrolled over a given number
// of timesteps for a given batch size. A single Factory is used both
// by the training loop (full sequence length, full batch) and for
// running a trained network as an agent (one timestep, batch size 1),
// so that the two share an architecture.
type Factory func(g *G.ExprGraph, timesteps, batch int) (RNN, error)
