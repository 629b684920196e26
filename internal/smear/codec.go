package smear

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// Encode converts physical kinematics to the five-parameter perigee
// representation (d0, z0, phi, theta, q/p).
//
// phi, px and py are taken from the truth momentum rather than values
// extrapolated to the perigee point: the measured phi would be deflected
// slightly further by the magnetic field, but the upstream propagation
// uses the same convention and the effect is small. Kept for consistency
// with downstream calibrations.
func Encode(pt, eta, phi float64, charge int, xd, yd, zd float64) track.Vector {
	px := pt * math.Cos(phi)
	py := pt * math.Sin(phi)

	var v track.Vector
	v[track.D0] = (xd*py - yd*px) / pt
	v[track.Z0] = zd
	v[track.Phi] = phi
	v[track.Theta] = 2 * math.Atan(math.Exp(-eta))
	v[track.QOverP] = float64(charge) / (pt * math.Cosh(eta))
	return v
}

// Reco holds the physical quantities rebuilt from a smeared parameter
// vector.
type Reco struct {
	Mom        fmom.PtEtaPhiM
	Xd, Yd, Zd float64
}

// Decode inverts Encode for a smeared parameter vector. The truth eta is
// used to recover pt from the smeared q/p (the smeared theta feeds the
// reconstructed eta instead), and mass is carried over from truth so the
// invariant mass is preserved. The impact point is rotated by the phi
// smear so Xd/Yd stay consistent with the smeared d0.
//
// A negative recovered pt means the q/p smear exceeded the q/p magnitude
// and flipped its sign; that signals a covariance inconsistent with the
// bin's kinematics and is surfaced as an error, never clamped.
func Decode(sm track.Vector, charge int, etaTruth, phiTruth, mass float64) (Reco, error) {
	pt := float64(charge) / (sm[track.QOverP] * math.Cosh(etaTruth))
	if pt < 0 {
		return Reco{}, fmt.Errorf("smeared pt negative (%v GeV): q/p smear flipped sign", pt)
	}
	eta := -math.Log(math.Tan(sm[track.Theta] / 2))

	phiD0 := phiTruth - math.Pi/2
	phiD0 += sm[track.Phi] - phiTruth

	return Reco{
		Mom: fmom.NewPtEtaPhiM(pt, eta, sm[track.Phi], mass),
		Xd:  sm[track.D0] * math.Cos(phiD0),
		Yd:  sm[track.D0] * math.Sin(phiD0),
		Zd:  sm[track.Z0],
	}, nil
}
