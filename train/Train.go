// Package train implements a training loop for fitting recurrent
// networks to behavioral sequence data
package train

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gobandit/dataset"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/solver"
	"github.com/samuelfneumann/gobandit/utils/progressbar"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// LossType describes the loss functions available to the training
// loop
type LossType string

// Available loss types
const (
	// Categorical is the negative log likelihood of the observed
	// choices under the predicted choice probabilities. Target labels
	// below zero are treated as missing and masked out of the loss.
	Categorical LossType = "Categorical"

	// PenalizedCategorical is the Categorical loss plus a penalty
	// term output by the network itself: the last output feature is
	// summed over all timesteps and episodes and added to the loss,
	// scaled by the configured penalty scale.
	PenalizedCategorical LossType = "PenalizedCategorical"
)

// keep the log argument strictly positive so that masked entries
// multiply to zero rather than NaN
const logEps float64 = 1e-12

const defaultLogEvery int = 10

// Config describes a configuration of the training loop
type Config struct {
	// NSteps is the number of gradient steps to perform
	NSteps int

	// Loss selects the loss function. The zero value selects
	// Categorical.
	Loss LossType

	// PenaltyScale scales the penalty term of the
	// PenalizedCategorical loss. Unused by other losses.
	PenaltyScale float64

	// Solver adapts the network weights from gradients. If nil, an
	// Adam solver with default hyperparameters is used. The solver's
	// internal state is carried inside the Solver itself, so passing
	// the same Solver to successive calls continues optimization
	// where the previous call left off.
	Solver *solver.Solver

	// LogEvery determines how often the training loss is recorded: on
	// every LogEvery-th step. If not positive, a default of 10 is
	// used.
	LogEvery int

	// Progress determines whether a progress bar is printed to the
	// terminal during training
	Progress bool
}

// loss returns the Config's loss type, defaulting to Categorical
func (c Config) loss() LossType {
	if c.Loss == "" {
		return Categorical
	}
	return c.Loss
}

// logEvery returns the Config's loss recording period
func (c Config) logEvery() int {
	if c.LogEvery <= 0 {
		return defaultLogEvery
	}
	return c.LogEvery
}

// Train fits a recurrent network to a dataset of behavioral
// sequences.
//
// The makeNet factory constructs the network, unrolled over the
// dataset's full sequence length at the dataset's batch size. If
// params is non-nil, training starts from those parameter values;
// otherwise it starts from the factory's own initialization. Each
// step draws the next batch from data, computes the configured loss
// and its gradients, and applies one solver update.
//
// Train returns the trained parameters and the recorded training
// losses. If any parameter or the final recorded loss is NaN at the
// end of training, an error is returned instead and the trained
// parameters are discarded.
func Train(makeNet network.Factory, data *dataset.Dataset, config Config,
	params []*tensor.Dense) ([]*tensor.Dense, []float64, error) {
	if data.Targets() != 1 {
		return nil, nil, fmt.Errorf("train: categorical loss requires "+
			"targets of dimensionality (timesteps, episodes, 1) but have "+
			"%v target features", data.Targets())
	}

	switch config.loss() {
	case Categorical, PenalizedCategorical:
	default:
		return nil, nil, fmt.Errorf("train: no such loss type %v",
			config.Loss)
	}

	timesteps := data.Timesteps()
	batchSize := data.BatchSize()

	// Construct the network, unrolled over the full sequence length
	g := G.NewGraph()
	net, err := makeNet(g, timesteps, batchSize)
	if err != nil {
		return nil, nil, fmt.Errorf("train: could not construct network: %v",
			err)
	}
	if net.Features() != data.Features() {
		return nil, nil, fmt.Errorf("train: network takes %v input "+
			"features but dataset provides %v", net.Features(),
			data.Features())
	}

	// The number of output features interpreted as choice scores. For
	// the penalized loss the last output feature is the penalty, not
	// a score.
	logitFeatures := net.Outputs()
	if config.loss() == PenalizedCategorical {
		logitFeatures = net.Outputs() - 1
		if logitFeatures < 1 {
			return nil, nil, fmt.Errorf("train: penalized loss requires a "+
				"network with at least 2 outputs but have %v", net.Outputs())
		}
	}

	// If parameters have been supplied, start from them rather than
	// from the factory's initialization
	if params != nil {
		if err := net.SetParams(params); err != nil {
			return nil, nil, fmt.Errorf("train: could not set parameters: %v",
				err)
		}
	}

	if config.NSteps == 0 {
		if params != nil {
			return params, nil, nil
		}
		return net.Params(), nil, nil
	}

	// Build the loss on the same graph
	labels, loss, err := addLoss(g, net, config, logitFeatures)
	if err != nil {
		return nil, nil, fmt.Errorf("train: %v", err)
	}
	var lossVal G.Value
	G.Read(loss, &lossVal)

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, nil, fmt.Errorf("train: could not compute gradient: %v",
			err)
	}

	vm := G.NewTapeMachine(g, G.BindDualValues(net.Learnables()...))
	defer vm.Close()

	sol := config.Solver
	if sol == nil {
		if sol, err = solver.NewDefaultAdam(1e-3, batchSize); err != nil {
			return nil, nil, fmt.Errorf("train: could not create solver: %v",
				err)
		}
	}

	var bar *progressbar.ProgressBar
	if config.Progress {
		bar = progressbar.New(25, config.NSteps)
		defer bar.Close()
	}

	var losses []float64
	for step := 0; step < config.NSteps; step++ {
		xs, ys, err := data.Next()
		if err != nil {
			return nil, nil, fmt.Errorf("train: could not get batch at "+
				"step %v: %v", step, err)
		}

		if err := net.SetInput(xs.Data().([]float64)); err != nil {
			return nil, nil, fmt.Errorf("train: could not set input at "+
				"step %v: %v", step, err)
		}

		masked, err := maskedOneHot(ys, timesteps, batchSize, logitFeatures)
		if err != nil {
			return nil, nil, fmt.Errorf("train: step %v: %v", step, err)
		}
		if err := G.Let(labels, masked); err != nil {
			return nil, nil, fmt.Errorf("train: could not set labels at "+
				"step %v: %v", step, err)
		}

		if err := vm.RunAll(); err != nil {
			return nil, nil, fmt.Errorf("train: could not run network at "+
				"step %v: %v", step, err)
		}
		if err := sol.Step(net.Model()); err != nil {
			return nil, nil, fmt.Errorf("train: could not apply solver "+
				"update at step %v: %v", step, err)
		}

		// Log every LogEvery-th step
		if step%config.logEvery() == config.logEvery()-1 {
			losses = append(losses, lossVal.Data().(float64))
		}
		if bar != nil {
			bar.Increment()
			bar.Display(fmt.Sprintf("loss: %.2e", lossVal.Data().(float64)))
		}

		vm.Reset()
	}

	trained := net.Params()

	// Check that nothing has become NaN that should not be NaN
	for i, param := range trained {
		for _, v := range param.Data().([]float64) {
			if math.IsNaN(v) {
				return nil, nil, fmt.Errorf("train: NaN in parameter %v "+
					"after %v steps", i, config.NSteps)
			}
		}
	}
	if len(losses) > 0 && math.IsNaN(losses[len(losses)-1]) {
		return nil, nil, fmt.Errorf("train: NaN in loss after %v steps",
			config.NSteps)
	}

	return trained, losses, nil
}

// addLoss adds the configured loss function to the network's graph,
// returning the label input node and the scalar loss node. The label
// node is fed the masked one-hot targets each step.
func addLoss(g *G.ExprGraph, net network.RNN, config Config,
	logitFeatures int) (*G.Node, *G.Node, error) {
	labels := G.NewTensor(g, tensor.Float64, 3,
		G.WithShape(net.Timesteps(), net.BatchSize(), logitFeatures),
		G.WithName("labels"), G.WithInit(G.Zeroes()))

	logits := net.Prediction()
	var penalty *G.Node
	if config.loss() == PenalizedCategorical {
		var err error
		logits, err = G.Slice(net.Prediction(), nil, nil,
			G.S(0, logitFeatures))
		if err != nil {
			return nil, nil, fmt.Errorf("addloss: could not slice choice "+
				"scores: %v", err)
		}
		penalty, err = G.Slice(net.Prediction(), nil, nil,
			G.S(logitFeatures, net.Outputs()))
		if err != nil {
			return nil, nil, fmt.Errorf("addloss: could not slice penalty "+
				"outputs: %v", err)
		}
	}

	probs, err := G.SoftMax(logits, 2)
	if err != nil {
		return nil, nil, fmt.Errorf("addloss: could not compute softmax: %v",
			err)
	}

	logProbs := G.Must(G.Log(G.Must(G.Add(probs, G.NewConstant(logEps)))))
	logLiks := G.Must(G.HadamardProd(logProbs, labels))
	loss := G.Must(G.Neg(G.Must(G.Sum(logLiks))))

	if penalty != nil {
		scale := G.NewConstant(config.PenaltyScale)
		term := G.Must(G.Mul(G.Must(G.Sum(penalty)), scale))
		loss = G.Must(G.Add(loss, term))
	}

	return labels, loss, nil
}

// maskedOneHot converts categorical targets of shape
// (timesteps, episodes, 1) into masked one-hot vectors of shape
// (timesteps, episodes, classes). A negative label produces an all
// zero row, dropping that timestep from the loss.
func maskedOneHot(ys *tensor.Dense, timesteps, episodes,
	classes int) (*tensor.Dense, error) {
	labels := ys.Data().([]float64)
	backing := make([]float64, timesteps*episodes*classes)

	for i, label := range labels {
		if label < 0 {
			continue
		}
		class := int(label)
		if class >= classes {
			return nil, fmt.Errorf("maskedonehot: label %v out of range "+
				"for %v classes", class, classes)
		}
		backing[i*classes+class] = 1.0
	}

	return tensor.New(
		tensor.WithShape(timesteps, episodes, classes),
		tensor.WithBacking(backing),
	), nil
}
