package smear

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// GaussianSource produces independent standard-normal draws. It is the
// only mutable shared state on the per-track path besides the bin-miss
// counter; tests substitute a seeded source for deterministic draws.
type GaussianSource interface {
	// Norm returns one standard-normal scalar.
	Norm() float64
	// Sample5 returns five independent standard-normal draws.
	Sample5() track.Vector
}

// NormalSource draws from a unit Gaussian over a PCG stream.
type NormalSource struct {
	dist distuv.Normal
}

var _ GaussianSource = (*NormalSource)(nil)

// NewNormalSource returns a source seeded with the given value.
func NewNormalSource(seed uint64) *NormalSource {
	return &NormalSource{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

// Norm returns one standard-normal scalar.
func (s *NormalSource) Norm() float64 { return s.dist.Rand() }

// Sample5 returns five independent standard-normal draws.
func (s *NormalSource) Sample5() track.Vector {
	var v track.Vector
	for i := range v {
		v[i] = s.dist.Rand()
	}
	return v
}
