// Command smearcheck validates a parametrisation statistically: for a
// chosen bin it draws a large sample of correlated smears, checks that
// their empirical covariance reproduces the bank matrix, and reports
// per-parameter pull distributions. A parametrisation that fails here
// would silently distort every downstream physics result.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/HarikrishnanNB/delphes-rave/internal/covstore"
	"github.com/HarikrishnanNB/delphes-rave/internal/smear"
	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

var (
	paramsPath = flag.String("params", "parametrisation.db", "parametrisation database")
	binSpec    = flag.String("bin", "0:0", "bin to validate as pt:eta (pt may be -1)")
	nDraws     = flag.Int("n", 200000, "number of draws")
	seed       = flag.Uint64("seed", 1, "seed for the Gaussian stream")
	tolerance  = flag.Float64("tol", 0.05, "relative tolerance on the empirical covariance")
)

var parNames = [track.NumParams]string{"d0", "z0", "phi", "theta", "qoverp"}

func main() {
	log.SetPrefix("smearcheck: ")
	log.SetFlags(0)
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	key, err := parseBin(*binSpec)
	if err != nil {
		return err
	}

	store, err := covstore.Open(*paramsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	table := smear.DefaultBinTable()
	bank, err := smear.LoadBank(store, table, 1.0)
	if err != nil {
		return err
	}
	cov, ok := bank[key]
	if !ok {
		return fmt.Errorf("bin %s has no matrix", key.Name())
	}
	factors, err := smear.Factorize(bank)
	if err != nil {
		return err
	}
	l := factors[key]

	rng := smear.NewNormalSource(*seed)
	samples := mat.NewDense(*nDraws, track.NumParams, nil)
	pulls := [track.NumParams]*hbook.H1D{}
	for i := range pulls {
		pulls[i] = hbook.NewH1D(100, -5, 5)
	}

	var noise mat.VecDense
	for n := 0; n < *nDraws; n++ {
		r := rng.Sample5()
		noise.MulVec(l, mat.NewVecDense(track.NumParams, r[:]))
		for i := 0; i < track.NumParams; i++ {
			v := noise.AtVec(i)
			samples.Set(n, i, v)
			pulls[i].Fill(v/math.Sqrt(cov.At(i, i)), 1)
		}
	}

	var emp mat.SymDense
	stat.CovarianceMatrix(&emp, samples, nil)

	failed := false
	for i := 0; i < track.NumParams; i++ {
		for j := i; j < track.NumParams; j++ {
			want := cov.At(i, j)
			got := emp.At(i, j)
			scale := math.Sqrt(cov.At(i, i) * cov.At(j, j))
			if math.Abs(got-want) > *tolerance*scale {
				log.Printf("FAIL cov(%s,%s): want %.6g got %.6g", parNames[i], parNames[j], want, got)
				failed = true
			}
		}
	}

	for i, h := range pulls {
		log.Printf("pull %-6s mean=%+.4f rms=%.4f", parNames[i], h.XMean(), h.XRMS())
	}

	if failed {
		return fmt.Errorf("bin %s: empirical covariance outside tolerance %.2g after %d draws", key.Name(), *tolerance, *nDraws)
	}
	log.Printf("bin %s OK: %d draws within tolerance %.2g", key.Name(), *nDraws, *tolerance)
	return nil
}

func parseBin(s string) (smear.BinKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return smear.BinKey{}, fmt.Errorf("bin must look like pt:eta, got %q", s)
	}
	ipt, err := strconv.Atoi(parts[0])
	if err != nil {
		return smear.BinKey{}, fmt.Errorf("bad pt bin in %q", s)
	}
	ieta, err := strconv.Atoi(parts[1])
	if err != nil {
		return smear.BinKey{}, fmt.Errorf("bad eta bin in %q", s)
	}
	return smear.BinKey{Pt: ipt, Eta: ieta}, nil
}
