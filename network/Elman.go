package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// elman implements a single-layer Elman recurrence:
//
//	h_t = act(x_t * Wxh + h_{t-1} * Whh + bh)
//	y_t = h_t * Why + by
//
// unrolled statically over the timestep axis of the input node.
type elman struct {
	g *G.ExprGraph

	timesteps  int
	batchSize  int
	features   int
	hiddenSize int
	outputs    int

	input   *G.Node // (timesteps, batch, features)
	hidden0 *G.Node // (batch, hidden)

	wxh, whh, bh *G.Node
	why, by      *G.Node
	act          *Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value

	hiddenOut *G.Node
	hiddenVal G.Value
}

// NewElman returns a Factory that constructs single-layer Elman
// networks with the given feature, hidden, and output sizes. The act
// parameter gives the recurrence nonlinearity and init the weight
// initialization scheme. Biases are initialized to zero.
func NewElman(features, hidden, outputs int, act *Activation,
	init G.InitWFn) Factory {
	return func(g *G.ExprGraph, timesteps, batch int) (RNN, error) {
		if features < 1 || hidden < 1 || outputs < 1 {
			return nil, fmt.Errorf("newelman: network sizes must be "+
				"positive: features %v, hidden %v, outputs %v", features,
				hidden, outputs)
		}
		if timesteps < 1 || batch < 1 {
			return nil, fmt.Errorf("newelman: unroll shape must be "+
				"positive: timesteps %v, batch %v", timesteps, batch)
		}

		input := G.NewTensor(g, tensor.Float64, 3,
			G.WithShape(timesteps, batch, features), G.WithName("input"),
			G.WithInit(G.Zeroes()))
		hidden0 := G.NewMatrix(g, tensor.Float64,
			G.WithShape(batch, hidden), G.WithName("hidden0"),
			G.WithInit(G.Zeroes()))

		wxh := G.NewMatrix(g, tensor.Float64, G.WithShape(features, hidden),
			G.WithName("wxh"), G.WithInit(init))
		whh := G.NewMatrix(g, tensor.Float64, G.WithShape(hidden, hidden),
			G.WithName("whh"), G.WithInit(init))
		bh := G.NewMatrix(g, tensor.Float64, G.WithShape(1, hidden),
			G.WithName("bh"), G.WithInit(G.Zeroes()))
		why := G.NewMatrix(g, tensor.Float64, G.WithShape(hidden, outputs),
			G.WithName("why"), G.WithInit(init))
		by := G.NewMatrix(g, tensor.Float64, G.WithShape(1, outputs),
			G.WithName("by"), G.WithInit(G.Zeroes()))

		net := &elman{
			g:          g,
			timesteps:  timesteps,
			batchSize:  batch,
			features:   features,
			hiddenSize: hidden,
			outputs:    outputs,
			input:      input,
			hidden0:    hidden0,
			wxh:        wxh,
			whh:        whh,
			bh:         bh,
			why:        why,
			by:         by,
			act:        act,
		}

		if err := net.fwd(); err != nil {
			return nil, fmt.Errorf("newelman: could not compute forward "+
				"pass: %v", err)
		}

		return net, nil
	}
}

// fwd adds the unrolled forward pass to the computational graph
func (e *elman) fwd() error {
	h := e.hidden0
	ys := make([]*G.Node, 0, e.timesteps)

	for t := 0; t < e.timesteps; t++ {
		xt, err := G.Slice(e.input, G.S(t))
		if err != nil {
			return fmt.Errorf("fwd: could not slice input at timestep "+
				"%v: %v", t, err)
		}

		preAct := G.Must(G.Add(G.Must(G.Mul(xt, e.wxh)),
			G.Must(G.Mul(h, e.whh))))
		preAct = G.Must(G.BroadcastAdd(preAct, e.bh, nil, []byte{0}))

		if h, err = e.act.fwd(preAct); err != nil {
			return fmt.Errorf("fwd: could not apply activation at "+
				"timestep %v: %v", t, err)
		}

		yt := G.Must(G.Mul(h, e.why))
		yt = G.Must(G.BroadcastAdd(yt, e.by, nil, []byte{0}))
		yt = G.Must(G.Reshape(yt, tensor.Shape{1, e.batchSize, e.outputs}))
		ys = append(ys, yt)
	}

	if len(ys) == 1 {
		e.prediction = ys[0]
	} else {
		var err error
		if e.prediction, err = G.Concat(0, ys...); err != nil {
			return fmt.Errorf("fwd: could not stack outputs: %v", err)
		}
	}
	G.Read(e.prediction, &e.predVal)

	e.hiddenOut = h
	G.Read(e.hiddenOut, &e.hiddenVal)

	return nil
}

// Graph returns the computational graph of the network
func (e *elman) Graph() *G.ExprGraph {
	return e.g
}

// Timesteps returns the number of timesteps the network is unrolled
// over
func (e *elman) Timesteps() int {
	return e.timesteps
}

// BatchSize returns the batch size of inputs to the network
func (e *elman) BatchSize() int {
	return e.batchSize
}

// Features returns the number of input features per timestep
func (e *elman) Features() int {
	return e.features
}

// Outputs returns the number of outputs per timestep
func (e *elman) Outputs() int {
	return e.outputs
}

// HiddenSize returns the size of the hidden state
func (e *elman) HiddenSize() int {
	return e.hiddenSize
}

// SetInput sets the value of the input node before running the graph
func (e *elman) SetInput(input []float64) error {
	want := e.timesteps * e.batchSize * e.features
	if len(input) != want {
		return fmt.Errorf("setinput: invalid number of inputs"+
			"\n\twant(%v)\n\thave(%v)", want, len(input))
	}

	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// SetHidden sets the hidden state for the first timestep
func (e *elman) SetHidden(hidden []float64) error {
	want := e.batchSize * e.hiddenSize
	if len(hidden) != want {
		return fmt.Errorf("sethidden: invalid hidden state size"+
			"\n\twant(%v)\n\thave(%v)", want, len(hidden))
	}

	hiddenTensor := tensor.New(
		tensor.WithBacking(hidden),
		tensor.WithShape(e.hidden0.Shape()...),
	)
	return G.Let(e.hidden0, hiddenTensor)
}

// Learnables returns the learnable nodes of the network
func (e *elman) Learnables() G.Nodes {
	// Lazy instantiation
	if e.learnables == nil {
		e.learnables = G.Nodes{e.wxh, e.whh, e.bh, e.why, e.by}
	}
	return e.learnables
}

// Model returns the learnable nodes with their gradients
func (e *elman) Model() []G.ValueGrad {
	// Lazy instantiation
	if e.model == nil {
		for _, node := range e.Learnables() {
			e.model = append(e.model, node)
		}
	}
	return e.model
}

// Prediction returns the node of the computational graph that stores
// the stacked per-timestep outputs of the network
func (e *elman) Prediction() *G.Node {
	return e.prediction
}

// Output returns the value of the network's prediction. The returned
// value is only valid after the graph has been run.
func (e *elman) Output() G.Value {
	return e.predVal
}

// Hidden returns the value of the hidden state after the final
// timestep. The returned value is only valid after the graph has been
// run.
func (e *elman) Hidden() G.Value {
	return e.hiddenVal
}

// Params returns a copy of the network's current parameter values
func (e *elman) Params() []*tensor.Dense {
	params := make([]*tensor.Dense, 0, len(e.Learnables()))
	for _, node := range e.Learnables() {
		value := node.Value().(*tensor.Dense)
		params = append(params, value.Clone().(*tensor.Dense))
	}
	return params
}

// SetParams sets the network's parameter values. The parameters must
// be in the same order and of the same shapes as Learnables.
func (e *elman) SetParams(params []*tensor.Dense) error {
	learnables := e.Learnables()
	if len(params) != len(learnables) {
		return fmt.Errorf("setparams: invalid number of parameters"+
			"\n\twant(%v)\n\thave(%v)", len(learnables), len(params))
	}

	for i, node := range learnables {
		if !node.Shape().Eq(params[i].Shape()) {
			return fmt.Errorf("setparams: parameter %v has shape %v but "+
				"network expects %v", i, params[i].Shape(), node.Shape())
		}
		err := G.Let(node, params[i].Clone().(*tensor.Dense))
		if err != nil {
			return fmt.Errorf("setparams: could not set parameter %v: %v",
				i, err)
		}
	}
	return nil
}
