// Package track holds the candidate model shared by the smearing engine:
// truth particles, reconstructed tracks, and smeared tracks with their
// perigee parameters and packed covariance.
package track

import (
	"go-hep.org/x/hep/fmom"
)

// Indices of the five perigee parameters. The ordering matches the
// resolution parametrisation: (d0, z0, phi, theta, q/p).
const (
	D0 = iota
	Z0
	Phi
	Theta
	QOverP
	NumParams
)

// Vector holds the five perigee parameters of a track.
type Vector [NumParams]float64

// NumCovEntries is the number of independent entries of the symmetric
// 5x5 parameter covariance.
const NumCovEntries = NumParams * (NumParams + 1) / 2

// CovIndex returns the position of covariance entry (i, j) in the packed
// representation. Each row stores its diagonal entry first, then the
// off-diagonal entries (i, j) for j < i:
//
//	d0d0, z0z0, z0d0, phiphi, phid0, phiz0, ...
func CovIndex(i, j int) int {
	if j > i {
		i, j = j, i
	}
	base := i * (i + 1) / 2
	if i == j {
		return base
	}
	return base + 1 + j
}

// Particle is a truth-level charged particle as delivered by the upstream
// event model. Read-only input to smearing.
type Particle struct {
	Mom    fmom.PtEtaPhiM
	Charge int
	Vertex [3]float64 // production vertex (mm)
}

// Track is a reconstructed-track candidate before resolution smearing.
// Xd, Yd, Zd are the impact coordinates measured at the nearest prior
// stage; Truth is the generated particle the track derives from and has
// no further ancestry.
type Track struct {
	Mom    fmom.PtEtaPhiM
	Charge int

	Xd, Yd, Zd float64

	Truth *Particle
}

// Smeared is the output of the smearing engine: the smeared perigee
// parameters, the quoted covariance of the resolution bin, the
// reconstructed kinematics, and the lineage chain. Orig points to the
// unsmeared track, which in turn points to the truth particle; the chain
// is forward-only and never cyclic.
type Smeared struct {
	Par Vector
	Cov [NumCovEntries]float64

	Mom        fmom.PtEtaPhiM
	Xd, Yd, Zd float64

	// Dxy is the smeared transverse impact parameter, SDxy its quoted
	// uncertainty.
	Dxy, SDxy float64

	Orig *Track
}
