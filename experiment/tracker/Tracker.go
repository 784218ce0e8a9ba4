// Package tracker implements tracking and saving of data generated
// during an experiment
package tracker

import (
	"encoding/gob"
	"log"
	"os"

	"github.com/samuelfneumann/gobandit/trial"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t trial.Trial)
	Save()
}

// Reward tracks and saves the cumulative reward over a session
type Reward struct {
	cumulative float64
	rewards    []float64
	filename   string
}

// NewReward creates and returns a new *Reward tracker which will save
// its data at the specified location filename
func NewReward(filename string) *Reward {
	var t Reward
	t.filename = filename
	return &t
}

// Track tracks the reward seen on a trial. By calling this method on
// every trial, the tracker stores the running cumulative reward over
// the session.
func (r *Reward) Track(t trial.Trial) {
	r.cumulative += t.Reward
	r.rewards = append(r.rewards, r.cumulative)
}

// Save saves the data tracked by the Reward tracker to disk
func (r *Reward) Save() {
	file, err := os.Create(r.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(r.rewards); err != nil {
		log.Fatalf("could not encode cumulative reward data: %v", err)
	}
}

// Choice tracks and saves the sequence of choices over a session
type Choice struct {
	choices  []float64
	filename string
}

// NewChoice creates and returns a new *Choice tracker which will save
// its data at the specified location filename
func NewChoice(filename string) *Choice {
	var t Choice
	t.filename = filename
	return &t
}

// Track tracks the choice made on a trial
func (c *Choice) Track(t trial.Trial) {
	c.choices = append(c.choices, float64(t.Choice))
}

// Save saves the data tracked by the Choice tracker to disk
func (c *Choice) Save() {
	file, err := os.Create(c.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(c.choices); err != nil {
		log.Fatalf("could not encode choice data: %v", err)
	}
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) []float64 {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64

	if err := dec.Decode(&data); err != nil {
		log.Fatalf("could not decode data: %v", err)
	}

	return data
}
