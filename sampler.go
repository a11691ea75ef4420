package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
)

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a PCG-backed source. The two PCG words are derived
// from seed with splitmix64 so that nearby seeds give unrelated streams.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(splitmix64(seed), splitmix64(seed^0xda942042e4dd58b5)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// workerSeed gives worker w of a parallel run its own stream. The index is
// mixed in rather than added so that (seed, w+1) and (seed+1, w) differ.
func workerSeed(seed uint64, w int) uint64 {
	return splitmix64(seed ^ uint64(w)*0x9e3779b97f4a7c15)
}

// Outcome is one classical readout with the Born probability it was drawn with.
type Outcome struct {
	Bits        string
	Index       int
	Probability float64
}

// Distribution maps each basis bit string to its probability.
type Distribution map[string]float64

// Histogram maps bit-string outcomes to occurrence counts.
type Histogram map[string]int

// Total returns the number of shots recorded.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Outcomes returns the recorded outcomes in lexical order.
func (h Histogram) Outcomes() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Frequency returns the empirical frequency of outcome, or 0 for an empty
// histogram.
func (h Histogram) Frequency(outcome string) float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	return float64(h[outcome]) / float64(total)
}

func (h Histogram) merge(o Histogram) {
	for k, n := range o {
		h[k] += n
	}
}

// Outcomes returns every basis string of the distribution in index order.
func (d Distribution) Outcomes() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// bitString spells basis index i on n qubits, qubit n-1 first and qubit 0 last.
func bitString(i, n int) string {
	return fmt.Sprintf("%0*b", n, i)
}

// checkedProbabilities returns the Born probabilities of s after verifying
// that they sum to 1.
func checkedProbabilities(s *StateVector) ([]float64, error) {
	probs := s.Probabilities()
	total := 0.0
	for _, p := range probs {
		total += p
	}
	if math.Abs(total-1) > normTolerance {
		return nil, newSimError(CodeUnnormalizedState, "probabilities do not sum to 1").
			WithContext("sum", fmt.Sprintf("%.12f", total))
	}
	return probs, nil
}

// FinalDistribution returns |a|² for every basis state of s.
func FinalDistribution(s *StateVector) (Distribution, error) {
	probs, err := checkedProbabilities(s)
	if err != nil {
		return nil, err
	}
	dist := make(Distribution, len(probs))
	for i, p := range probs {
		dist[bitString(i, s.NumQubits)] = p
	}
	return dist, nil
}

// pick walks the CDF in index order and returns the first index whose
// cumulative probability exceeds r. Rounding can leave r past the last
// boundary; the last index with non-zero probability is returned then.
func pick(probs []float64, r float64) int {
	cumulative := 0.0
	last := 0
	for i, p := range probs {
		if p <= 0 {
			continue
		}
		last = i
		cumulative += p
		if r < cumulative {
			return i
		}
	}
	return last
}

// SampleOne draws a single outcome from s without disturbing it.
func SampleOne(s *StateVector, src RandomSource) (Outcome, error) {
	probs, err := checkedProbabilities(s)
	if err != nil {
		return Outcome{}, err
	}
	i := pick(probs, src.Float64())
	return Outcome{Bits: bitString(i, s.NumQubits), Index: i, Probability: probs[i]}, nil
}

func checkShots(shots int) error {
	if shots < 1 {
		return newSimError(CodeInvalidShotCount, "shots must be at least 1").
			WithContext("shots", shots)
	}
	return nil
}

// SampleMany draws shots independent outcomes from the same final state.
func SampleMany(s *StateVector, shots int, src RandomSource) (Histogram, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}
	probs, err := checkedProbabilities(s)
	if err != nil {
		return nil, err
	}
	return sampleInto(make(Histogram), probs, s.NumQubits, shots, src), nil
}

func sampleInto(h Histogram, probs []float64, numQubits, shots int, src RandomSource) Histogram {
	labels := make([]string, len(probs))
	for i := range probs {
		labels[i] = bitString(i, numQubits)
	}
	for range shots {
		h[labels[pick(probs, src.Float64())]]++
	}
	return h
}

// SampleManyParallel splits shots over workers goroutines. Worker w draws from
// its own source derived from seed and w, so the result depends only on
// (seed, workers, shots).
func SampleManyParallel(s *StateVector, shots, workers int, seed uint64) (Histogram, error) {
	if err := checkShots(shots); err != nil {
		return nil, err
	}
	probs, err := checkedProbabilities(s)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	workers = min(workers, shots)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		hist = make(Histogram)
	)
	per := shots / workers
	extra := shots % workers

	for w := range workers {
		n := per
		if w < extra {
			n++
		}
		wg.Add(1)
		go func(w, n int) {
			defer wg.Done()
			local := sampleInto(make(Histogram), probs, s.NumQubits, n, NewSeededSource(workerSeed(seed, w)))
			mu.Lock()
			hist.merge(local)
			mu.Unlock()
		}(w, n)
	}
	wg.Wait()

	return hist, nil
}
