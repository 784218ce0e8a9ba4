package train

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gobandit/dataset"
	"github.com/samuelfneumann/gobandit/initwfn"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/solver"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// newData returns a small dataset of 2 episodes of 4 trials each. The
// targets include a masked entry.
func newData(t *testing.T) *dataset.Dataset {
	t.Helper()

	xs := tensor.New(
		tensor.WithShape(4, 2, 2),
		tensor.WithBacking([]float64{
			0, 0, 0, 0,
			0, 1, 1, 0,
			1, 1, 0, 0,
			0, 0, 1, 1,
		}),
	)
	ys := tensor.New(
		tensor.WithShape(4, 2, 1),
		tensor.WithBacking([]float64{0, 1, 1, 0, 0, 1, -1, 1}),
	)

	data, err := dataset.New(xs, ys, 2)
	if err != nil {
		t.Fatalf("could not construct dataset: %v", err)
	}
	return data
}

func TestTrainZeroSteps(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))

	// Without starting parameters, zero steps returns the factory's
	// initialization
	params, losses, err := Train(makeNet, data, Config{NSteps: 0}, nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}
	if len(params) != 5 {
		t.Errorf("got %v parameters, expected 5", len(params))
	}
	if len(losses) != 0 {
		t.Errorf("recorded %v losses over 0 steps, expected 0", len(losses))
	}

	// With starting parameters, zero steps returns them unchanged
	trained, _, err := Train(makeNet, data, Config{NSteps: 0}, params)
	if err != nil {
		t.Fatalf("could not train from given parameters: %v", err)
	}
	for i := range params {
		want := params[i].Data().([]float64)
		got := trained[i].Data().([]float64)
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("parameter %v changed over 0 steps", i)
			}
		}
	}
}

func TestTrainRecordsLosses(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))

	params, losses, err := Train(makeNet, data, Config{NSteps: 20}, nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}

	// The default recording period is every 10th step
	if len(losses) != 2 {
		t.Fatalf("recorded %v losses over 20 steps, expected 2", len(losses))
	}
	for i, loss := range losses {
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			t.Errorf("loss %v = %v, expected a finite value", i, loss)
		}
	}

	for i, param := range params {
		for _, v := range param.Data().([]float64) {
			if math.IsNaN(v) {
				t.Fatalf("parameter %v contains NaN after training", i)
			}
		}
	}
}

func TestTrainLogEvery(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))

	_, losses, err := Train(makeNet, data, Config{NSteps: 15, LogEvery: 5},
		nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}
	if len(losses) != 3 {
		t.Errorf("recorded %v losses over 15 steps at period 5, expected 3",
			len(losses))
	}
}

func TestTrainContinuesFromParams(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))

	params, _, err := Train(makeNet, data, Config{NSteps: 10}, nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}

	trained, _, err := Train(makeNet, data, Config{NSteps: 10}, params)
	if err != nil {
		t.Fatalf("could not continue training: %v", err)
	}

	same := true
	for i := range params {
		want := params[i].Data().([]float64)
		got := trained[i].Data().([]float64)
		for j := range want {
			if got[j] != want[j] {
				same = false
			}
		}
	}
	if same {
		t.Error("parameters did not change over 10 steps")
	}
}

func TestTrainVanillaSolver(t *testing.T) {
	data := newData(t)

	glorot, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		t.Fatalf("could not create initializer: %v", err)
	}
	makeNet := network.NewElman(2, 4, 2, network.TanH(), glorot.InitWFn())

	sgd, err := solver.NewVanilla(0.05, data.BatchSize(), 0)
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}

	params, losses, err := Train(makeNet, data, Config{
		NSteps: 10,
		Solver: sgd,
	}, nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}
	if len(losses) != 1 {
		t.Fatalf("recorded %v losses over 10 steps, expected 1", len(losses))
	}
	if math.IsNaN(losses[0]) || math.IsInf(losses[0], 0) {
		t.Errorf("loss = %v, expected a finite value", losses[0])
	}
	for i, param := range params {
		for _, v := range param.Data().([]float64) {
			if math.IsNaN(v) {
				t.Fatalf("parameter %v contains NaN after training", i)
			}
		}
	}
}

func TestTrainPenalizedCategorical(t *testing.T) {
	data := newData(t)

	// The third output feature is the penalty head
	makeNet := network.NewElman(2, 4, 3, network.TanH(), G.GlorotU(1.0))

	config := Config{
		NSteps:       20,
		Loss:         PenalizedCategorical,
		PenaltyScale: 0.1,
	}
	params, losses, err := Train(makeNet, data, config, nil)
	if err != nil {
		t.Fatalf("could not train: %v", err)
	}
	if len(losses) != 2 {
		t.Fatalf("recorded %v losses over 20 steps, expected 2", len(losses))
	}
	for i, param := range params {
		for _, v := range param.Data().([]float64) {
			if math.IsNaN(v) {
				t.Fatalf("parameter %v contains NaN after training", i)
			}
		}
	}
}

func TestTrainRejectsPenalizedSingleOutput(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 1, network.TanH(), G.GlorotU(1.0))

	config := Config{NSteps: 1, Loss: PenalizedCategorical}
	if _, _, err := Train(makeNet, data, config, nil); err == nil {
		t.Error("expected an error for a penalized loss with a single " +
			"output network")
	}
}

func TestTrainRejectsUnknownLoss(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))

	config := Config{NSteps: 1, Loss: LossType("Hinge")}
	if _, _, err := Train(makeNet, data, config, nil); err == nil {
		t.Error("expected an error for an unknown loss type")
	}
}

func TestTrainRejectsMultiFeatureTargets(t *testing.T) {
	xs := tensor.New(tensor.WithShape(2, 2, 2),
		tensor.WithBacking(make([]float64, 8)))
	ys := tensor.New(tensor.WithShape(2, 2, 2),
		tensor.WithBacking(make([]float64, 8)))
	data, err := dataset.New(xs, ys, 2)
	if err != nil {
		t.Fatalf("could not construct dataset: %v", err)
	}

	makeNet := network.NewElman(2, 4, 2, network.TanH(), G.GlorotU(1.0))
	if _, _, err := Train(makeNet, data, Config{NSteps: 1}, nil); err == nil {
		t.Error("expected an error for targets with 2 features")
	}
}

func TestTrainRejectsFeatureMismatch(t *testing.T) {
	data := newData(t)
	makeNet := network.NewElman(3, 4, 2, network.TanH(), G.GlorotU(1.0))

	if _, _, err := Train(makeNet, data, Config{NSteps: 1}, nil); err == nil {
		t.Error("expected an error for a network with 3 input features")
	}
}

func TestMaskedOneHot(t *testing.T) {
	ys := tensor.New(
		tensor.WithShape(2, 2, 1),
		tensor.WithBacking([]float64{0, 1, -1, 0}),
	)

	masked, err := maskedOneHot(ys, 2, 2, 2)
	if err != nil {
		t.Fatalf("could not mask targets: %v", err)
	}

	want := []float64{
		1, 0, // label 0
		0, 1, // label 1
		0, 0, // masked
		1, 0, // label 0
	}
	got := masked.Data().([]float64)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("masked value %v = %v, expected %v", i, got[i], want[i])
		}
	}
}

func TestMaskedOneHotRejectsOutOfRange(t *testing.T) {
	ys := tensor.New(
		tensor.WithShape(1, 1, 1),
		tensor.WithBacking([]float64{2}),
	)

	if _, err := maskedOneHot(ys, 1, 1, 2); err == nil {
		t.Error("expected an error for a label outside the class range")
	}
}
