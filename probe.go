package main

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
)

// Prober runs Zeno probes against fresh registers. It is the only entry point
// the game shells and the report generator use.
type Prober struct {
	src     RandomSource
	rng     *rand.Rand // nil when src was supplied by the caller
	seed    uint64
	workers int
	logger  *log.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithSource makes the prober draw every shot from src. A caller-supplied
// source is not shared across goroutines, so histograms are sampled
// sequentially even when WithWorkers asks for more.
func WithSource(src RandomSource) ProberOption {
	return func(p *Prober) {
		p.src = src
		p.rng = nil
	}
}

// WithSeed seeds the prober's source deterministically. A zero seed keeps the
// clock-derived default.
func WithSeed(seed uint64) ProberOption {
	return func(p *Prober) {
		if seed == 0 {
			return
		}
		p.seed = seed
		p.rng = NewSeededSource(seed)
		p.src = p.rng
	}
}

// WithWorkers spreads ProbeDistribution shots over n goroutines when n > 1.
func WithWorkers(n int) ProberOption {
	return func(p *Prober) {
		p.workers = n
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *log.Logger) ProberOption {
	return func(p *Prober) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProber returns a prober seeded from the clock unless options say
// otherwise.
func NewProber(opts ...ProberOption) *Prober {
	seed := uint64(time.Now().UnixNano())
	rng := NewSeededSource(seed)
	p := &Prober{
		src:     rng,
		rng:     rng,
		seed:    seed,
		workers: 1,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Seed returns the seed behind the prober's default source.
func (p *Prober) Seed() uint64 {
	return p.seed
}

func (p *Prober) evolve(repetitions int, occupied bool) (*StateVector, error) {
	circuit, err := BuildCircuit(repetitions, occupied)
	if err != nil {
		return nil, err
	}
	state, err := SimulateCircuit(circuit)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("evolved register",
		"repetitions", repetitions,
		"occupied", occupied,
		"gates", len(circuit.Gates),
		"norm", state.Norm(),
		"probe_p1", state.GetQubitProbabilities()[ProbeQubit].Prob1,
	)
	return state, nil
}

// Probe builds the circuit for a cell, evolves it and reads it out once.
func (p *Prober) Probe(repetitions int, occupied bool) (Outcome, error) {
	state, err := p.evolve(repetitions, occupied)
	if err != nil {
		return Outcome{}, err
	}
	outcome, err := SampleOne(state, p.src)
	if err != nil {
		return Outcome{}, err
	}
	p.logger.Debug("probe", "outcome", outcome.Bits, "p", outcome.Probability)
	return outcome, nil
}

// ProbeDistribution evolves the circuit once and samples it shots times.
func (p *Prober) ProbeDistribution(repetitions int, occupied bool, shots int) (Histogram, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}
	state, err := p.evolve(repetitions, occupied)
	if err != nil {
		return nil, err
	}

	// Each parallel call takes its worker seed from the prober's own stream,
	// so successive calls differ but the sequence still follows the seed.
	var hist Histogram
	if p.workers > 1 && p.rng != nil {
		hist, err = SampleManyParallel(state, shots, p.workers, p.rng.Uint64())
	} else {
		hist, err = SampleMany(state, shots, p.src)
	}
	if err != nil {
		return nil, err
	}
	p.logger.Debug("sampled histogram", "shots", shots, "workers", p.workers, "outcomes", len(hist))
	return hist, nil
}

// Distribution returns the exact terminal distribution of the circuit.
func (p *Prober) Distribution(repetitions int, occupied bool) (Distribution, error) {
	state, err := p.evolve(repetitions, occupied)
	if err != nil {
		return nil, err
	}
	return FinalDistribution(state)
}
