package smear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// FactorSet holds the lower Cholesky factor L of every bank entry,
// L·Lᵗ = cov. The factors are computed once at startup and never
// mutated; applying L to an iid standard-normal 5-vector yields a draw
// from the bin's resolution model.
type FactorSet map[BinKey]*mat.TriDense

// Factorize computes the Cholesky factor of every matrix in the bank.
// A matrix that is not positive definite is a configuration error: the
// parametrisation file is corrupt and smearing with it would produce
// invalid resolution data.
func Factorize(bank Bank) (FactorSet, error) {
	factors := make(FactorSet, len(bank))
	for key, cov := range bank {
		var chol mat.Cholesky
		if !chol.Factorize(cov) {
			return nil, fmt.Errorf("covariance for bin %s is not positive definite", key.Name())
		}
		l := mat.NewTriDense(track.NumParams, mat.Lower, nil)
		chol.LTo(l)
		factors[key] = l
	}
	return factors, nil
}
