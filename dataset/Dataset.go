// Package dataset implements datasets of paired input and target
// sequences for training recurrent networks
package dataset

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/utils/tensorutils"
	"gorgonia.org/tensor"
)

// Dataset holds paired input and target tensors for training a
// recurrent network. Both inputs and targets are stored with shape
// [timestep, episode, feature] and are served up in batches of
// episodes.
//
// Iteration is cyclic: once a batch ends at the episode boundary, the
// next call to Next starts over at the first episode. A batch is
// always exactly batch size episodes; a short batch is never served.
type Dataset struct {
	xs, ys    *tensor.Dense
	batchSize int
	size      int // Total number of episodes
	idx       int // Index of the first episode of the next batch
	nBatches  int
}

// New performs error checking and bins up the dataset into batches.
//
// The xs parameter holds the values to become inputs to the network
// and ys the values to become output targets, both with
// dimensionality [timestep, episode, feature]. The batchSize
// parameter is the number of episodes to serve up each time Next is
// called. If batchSize is not positive, all episodes in the dataset
// are served.
func New(xs, ys *tensor.Dense, batchSize int) (*Dataset, error) {
	if xs.Dims() != 3 || ys.Dims() != 3 {
		return nil, fmt.Errorf("new: xs and ys must have dimensionality "+
			"[timestep, episode, feature] but have %v and %v dimensions",
			xs.Dims(), ys.Dims())
	}

	// Do xs and ys have the same number of timesteps?
	if xs.Shape()[0] != ys.Shape()[0] {
		return nil, fmt.Errorf("new: number of timesteps in xs %v must be "+
			"equal to number of timesteps in ys %v", xs.Shape()[0],
			ys.Shape()[0])
	}

	// Do xs and ys have the same number of episodes?
	if xs.Shape()[1] != ys.Shape()[1] {
		return nil, fmt.Errorf("new: number of episodes in xs %v must be "+
			"equal to number of episodes in ys %v", xs.Shape()[1],
			ys.Shape()[1])
	}

	size := xs.Shape()[1]
	if batchSize <= 0 {
		batchSize = size
	}

	// Is the number of episodes divisible by the batch size?
	if size%batchSize != 0 {
		return nil, fmt.Errorf("new: dataset size %v must be divisible by "+
			"batch size %v", size, batchSize)
	}

	return &Dataset{
		xs:        xs,
		ys:        ys,
		batchSize: batchSize,
		size:      size,
		idx:       0,
		nBatches:  size / batchSize,
	}, nil
}

// Next returns the next batch of data, including both inputs and
// targets. The returned tensors are dense copies holding batch size
// contiguous episodes with the timestep and feature axes preserved in
// full.
func (d *Dataset) Next() (*tensor.Dense, *tensor.Dense, error) {
	start := d.idx
	end := start + d.batchSize

	// Update the index for next time, wrapping exactly at the episode
	// boundary
	if end == d.size {
		d.idx = 0
	} else {
		d.idx = end
	}

	episodes := tensorutils.NewSlice(start, end, 1)

	xView, err := d.xs.Slice(nil, episodes, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("next: could not slice inputs: %v", err)
	}
	yView, err := d.ys.Slice(nil, episodes, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("next: could not slice targets: %v", err)
	}

	x := xView.Materialize().(*tensor.Dense)
	y := yView.Materialize().(*tensor.Dense)

	return x, y, nil
}

// NBatches returns the number of batches the dataset was binned into
func (d *Dataset) NBatches() int {
	return d.nBatches
}

// BatchSize returns the number of episodes served by each call to Next
func (d *Dataset) BatchSize() int {
	return d.batchSize
}

// Timesteps returns the number of timesteps in each episode
func (d *Dataset) Timesteps() int {
	return d.xs.Shape()[0]
}

// Episodes returns the total number of episodes in the dataset
func (d *Dataset) Episodes() int {
	return d.size
}

// Features returns the number of input features per timestep
func (d *Dataset) Features() int {
	return d.xs.Shape()[2]
}

// Targets returns the number of target features per timestep
func (d *Dataset) Targets() int {
	return d.ys.Shape()[2]
}
