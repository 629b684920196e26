// Package smear implements parametrized track-resolution smearing: it
// draws correlated Gaussian noise from binned detector-resolution
// covariance matrices and applies it to truth-level perigee parameters.
//
// The per-bin covariance matrices are loaded once at startup (see
// LoadBank), Cholesky-factorized (Factorize), and queried per track by
// the Smearer. All tables are immutable after construction; the random
// stream and the bin-miss counter are the only mutable state.
package smear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// Smearer applies resolution smearing to tracks, one at a time, in input
// order. Not safe for concurrent use: workers must each own a Smearer
// with an independent GaussianSource.
type Smearer struct {
	table   *BinTable
	bank    Bank
	factors FactorSet
	rng     GaussianSource

	misses int64
}

// NewSmearer factorizes the bank and returns a ready Smearer.
func NewSmearer(table *BinTable, bank Bank, rng GaussianSource) (*Smearer, error) {
	factors, err := Factorize(bank)
	if err != nil {
		return nil, err
	}
	return &Smearer{table: table, bank: bank, factors: factors, rng: rng}, nil
}

// Resolve returns the bin whose smearing factor covers (ptBin, etaBin).
// A direct hit is always preferred; when the bin has no matrix, the
// search falls back to strictly lower eta bins, counting one miss per
// step. Exhausting the fallback at eta bin 0 means the bin table and the
// loaded matrix set are inconsistent, which is fatal.
func (s *Smearer) Resolve(ptBin, etaBin int) (BinKey, error) {
	if etaBin < 0 {
		return BinKey{}, fmt.Errorf("eta bin %d below the first threshold: eta binning misconfigured", etaBin)
	}
	for eb := etaBin; ; eb-- {
		key := BinKey{Pt: ptBin, Eta: eb}
		if _, ok := s.factors[key]; ok {
			return key, nil
		}
		if eb == 0 {
			return BinKey{}, fmt.Errorf("no eta bins defined for pt bin %d", ptBin)
		}
		s.misses++
	}
}

// Smear produces the smeared counterpart of tr.
//
// Kinematics are taken from the truth particle, not from tr's own
// momentum, so that smearing applied by an earlier stage is never
// compounded; the impact coordinates come from tr, where they were
// measured. The returned track points back at tr, which keeps its own
// pointer to the truth particle, forming the fixed three-level lineage
// chain.
func (s *Smearer) Smear(tr *track.Track) (*track.Smeared, error) {
	p := tr.Truth
	if p == nil {
		return nil, fmt.Errorf("track has no truth particle")
	}
	pt := p.Mom.Pt()
	eta := p.Mom.Eta()
	phi := p.Mom.Phi()

	truth := Encode(pt, eta, phi, p.Charge, tr.Xd, tr.Yd, tr.Zd)

	key, err := s.Resolve(s.table.PtBin(pt), s.table.EtaBin(math.Abs(eta)))
	if err != nil {
		return nil, err
	}

	r := s.rng.Sample5()
	var noise mat.VecDense
	noise.MulVec(s.factors[key], mat.NewVecDense(track.NumParams, r[:]))

	var smeared track.Vector
	for i := range smeared {
		smeared[i] = truth[i] + noise.AtVec(i)
	}

	reco, err := Decode(smeared, p.Charge, eta, phi, p.Mom.M())
	if err != nil {
		return nil, fmt.Errorf("bin %s: %w", key.Name(), err)
	}

	out := &track.Smeared{
		Par:  smeared,
		Cov:  packCov(s.bank[key]),
		Mom:  reco.Mom,
		Xd:   reco.Xd,
		Yd:   reco.Yd,
		Zd:   reco.Zd,
		Dxy:  smeared[track.D0],
		Orig: tr,
	}
	out.SDxy = math.Sqrt(math.Abs(out.Cov[track.CovIndex(track.D0, track.D0)]))
	return out, nil
}

// BinMisses reports how many fallback steps occurred so far. Reported at
// shutdown as a diagnostic, never an error.
func (s *Smearer) BinMisses() int64 { return s.misses }

// packCov flattens the symmetric covariance into its independent
// entries, in the order defined by track.CovIndex.
func packCov(cov *mat.SymDense) [track.NumCovEntries]float64 {
	var packed [track.NumCovEntries]float64
	for i := 0; i < track.NumParams; i++ {
		for j := 0; j <= i; j++ {
			packed[track.CovIndex(i, j)] = cov.At(i, j)
		}
	}
	return packed
}
