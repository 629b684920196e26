package smear

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// BinKey identifies one bin of the resolution parametrisation. Pt may be
// -1, the synthetic bin below the lowest configured pt threshold.
type BinKey struct {
	Pt  int
	Eta int
}

// Name returns the canonical store key for the bin. The parametrisation
// defines no matrices below the lowest pt threshold, so Pt is clamped to
// zero for lookup; the low-pt inflation is applied after loading instead.
func (k BinKey) Name() string {
	pt := k.Pt
	if pt < 0 {
		pt = 0
	}
	return fmt.Sprintf("covmat_ptbin%02d_etabin%02d", pt, k.Eta)
}

// MatrixSource is the external keyed store of symmetric 5x5 matrices.
// ok == false reports an absent key, which is a normal condition.
type MatrixSource interface {
	Matrix(name string) (m *mat.SymDense, ok bool, err error)
}

// Bank maps resolution bins to their covariance matrices, unit-converted
// to GeV and scaled by the global smearing multiplier. Bins absent from
// the source are absent from the bank.
type Bank map[BinKey]*mat.SymDense

const (
	// The source matrices quote q/p in 1/MeV; covariance entries pick up
	// one factor per q/p index.
	gevFromMeV = 1000.0

	// Uncertainty inflation applied to d0 and z0 for the synthetic
	// low-pt bin.
	lowPtInflation = 2.0
)

// LoadBank fetches the covariance matrix of every configured bin from
// src, including the synthetic pt bin -1. Missing bins are logged and
// skipped; a store error is fatal.
func LoadBank(src MatrixSource, table *BinTable, mult float64) (Bank, error) {
	if mult <= 0 {
		return nil, fmt.Errorf("smearing multiplier must be positive, got %v", mult)
	}
	bank := make(Bank)
	for ipt := -1; ipt < table.NumPtBins(); ipt++ {
		for ieta := 0; ieta < table.NumEtaBins(); ieta++ {
			key := BinKey{Pt: ipt, Eta: ieta}
			m, ok, err := src.Matrix(key.Name())
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", key.Name(), err)
			}
			if !ok {
				log.Printf("no smearing defined for pt-eta %d %d", ipt, ieta)
				continue
			}
			if n := m.SymmetricDim(); n != track.NumParams {
				return nil, fmt.Errorf("%s: want %dx%d matrix, got %dx%d", key.Name(), track.NumParams, track.NumParams, n, n)
			}
			convertUnitsToGeV(m)
			if ipt < 0 {
				inflateLowPt(m)
			}
			if mult != 1 {
				m.ScaleSym(mult, m)
			}
			bank[key] = m
		}
	}
	return bank, nil
}

// convertUnitsToGeV rescales the q/p row and column from 1/MeV to 1/GeV.
// Applied as a similarity transform, so symmetry and positive
// semi-definiteness are preserved.
func convertUnitsToGeV(m *mat.SymDense) {
	applySimilarityDiag(m, track.QOverP, gevFromMeV)
}

// inflateLowPt applies the low-pt inflation: a similarity transform with
// factor 2 on the d0 and z0 indices, doubling the quoted impact-parameter
// uncertainties for tracks below the lowest modelled pt threshold.
func inflateLowPt(m *mat.SymDense) {
	applySimilarityDiag(m, track.D0, lowPtInflation)
	applySimilarityDiag(m, track.Z0, lowPtInflation)
}

// applySimilarityDiag multiplies m by diag(..1, f, 1..) from both sides,
// with f at index idx: entry (i, j) is scaled by f once per index equal
// to idx.
func applySimilarityDiag(m *mat.SymDense, idx int, f float64) {
	n := m.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s := 1.0
			if i == idx {
				s *= f
			}
			if j == idx {
				s *= f
			}
			if s != 1 {
				m.SetSym(i, j, m.At(i, j)*s)
			}
		}
	}
}
