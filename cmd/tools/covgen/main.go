// Command covgen produces a parametrisation database from analytic
// resolution curves. Matrices are written in the source conventions the
// engine expects: lengths in mm, angles in rad, q/p in 1/MeV, keyed by
// canonical bin name. The construction is diagonally dominant, so every
// generated matrix is positive definite.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/HarikrishnanNB/delphes-rave/internal/covstore"
	"github.com/HarikrishnanNB/delphes-rave/internal/smear"
	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

var (
	outPath = flag.String("o", "parametrisation.db", "output database")
	skip    = flag.String("skip", "", "comma-separated pt:eta bins to leave undefined (e.g. 2:5,2:4)")
)

// Correlations between the perigee parameters. Small enough to keep the
// matrices diagonally dominant.
var corr = map[[2]int]float64{
	{track.D0, track.Phi}:     -0.15,
	{track.Z0, track.Theta}:   0.10,
	{track.Phi, track.QOverP}: 0.05,
	{track.D0, track.QOverP}:  0.02,
}

func main() {
	log.SetPrefix("covgen: ")
	log.SetFlags(0)
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	skipped, err := parseSkip(*skip)
	if err != nil {
		return err
	}

	store, err := covstore.Create(*outPath)
	if err != nil {
		return err
	}
	defer store.Close()

	table := smear.DefaultBinTable()
	ptThr := table.PtThresholds()
	etaThr := table.EtaThresholds()

	n := 0
	for ipt := 0; ipt < len(ptThr); ipt++ {
		for ieta := 0; ieta < len(etaThr); ieta++ {
			if skipped[[2]int{ipt, ieta}] {
				continue
			}
			pt := binCenterPt(ptThr, ipt)
			eta := binCenterEta(etaThr, ieta)
			key := smear.BinKey{Pt: ipt, Eta: ieta}
			if err := store.Put(key.Name(), covMatrix(pt, eta)); err != nil {
				return err
			}
			n++
		}
	}
	log.Printf("wrote %d matrices to %s", n, *outPath)
	return nil
}

// covMatrix builds the 5x5 covariance for a bin centered at (pt, eta).
func covMatrix(pt, eta float64) *mat.SymDense {
	s := sigmas(pt, eta)
	m := mat.NewSymDense(track.NumParams, nil)
	for i := 0; i < track.NumParams; i++ {
		m.SetSym(i, i, s[i]*s[i])
		for j := i + 1; j < track.NumParams; j++ {
			if c, ok := corr[[2]int{i, j}]; ok {
				m.SetSym(i, j, c*s[i]*s[j])
			}
		}
	}
	return m
}

// sigmas returns per-parameter resolutions in source units (mm, rad,
// 1/MeV) at the given bin center. The shapes are the usual multiple
// scattering ⊕ intrinsic forms.
func sigmas(pt, eta float64) [track.NumParams]float64 {
	quad := func(a, b float64) float64 { return math.Sqrt(a*a + b*b/(pt*pt)) }

	var s [track.NumParams]float64
	s[track.D0] = quad(0.008, 0.080) * (1 + 0.5*eta*eta)
	s[track.Z0] = quad(0.010, 0.100) * (1 + eta*eta)
	s[track.Phi] = quad(0.0002, 0.0010)
	s[track.Theta] = quad(0.0001, 0.0008)

	// relative momentum resolution -> absolute q/p, converted to 1/MeV
	rel := math.Sqrt(math.Pow(0.0005*pt, 2) + math.Pow(0.01, 2))
	qoverp := 1 / (pt * math.Cosh(eta))
	s[track.QOverP] = rel * qoverp / 1000
	return s
}

func binCenterPt(thr []float64, i int) float64 {
	if i+1 < len(thr) {
		return math.Sqrt(thr[i] * thr[i+1])
	}
	return 1.5 * thr[i]
}

func binCenterEta(thr []float64, i int) float64 {
	if i+1 < len(thr) {
		return 0.5 * (thr[i] + thr[i+1])
	}
	return thr[i] + 0.2
}

func parseSkip(s string) (map[[2]int]bool, error) {
	skipped := make(map[[2]int]bool)
	if s == "" {
		return skipped, nil
	}
	for _, part := range strings.Split(s, ",") {
		pe := strings.Split(part, ":")
		if len(pe) != 2 {
			return nil, fmt.Errorf("bad -skip entry %q: entries look like pt:eta, e.g. 2:5", part)
		}
		ipt, err := strconv.Atoi(pe[0])
		if err != nil {
			return nil, fmt.Errorf("bad pt bin in -skip entry %q", part)
		}
		ieta, err := strconv.Atoi(pe[1])
		if err != nil {
			return nil, fmt.Errorf("bad eta bin in -skip entry %q", part)
		}
		skipped[[2]int{ipt, ieta}] = true
	}
	return skipped, nil
}
