// Command resplot plots the per-bin resolution of one perigee parameter
// against pt, one line per eta bin, straight from a parametrisation
// database. Useful for eyeballing a freshly generated or imported
// parametrisation before a production run.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/HarikrishnanNB/delphes-rave/internal/covstore"
	"github.com/HarikrishnanNB/delphes-rave/internal/smear"
	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

var (
	paramsPath = flag.String("params", "parametrisation.db", "parametrisation database")
	parIdx     = flag.Int("par", track.D0, "parameter index to plot (0=d0 1=z0 2=phi 3=theta 4=qoverp)")
	outPath    = flag.String("o", "resolution.png", "output image")
)

var parNames = [track.NumParams]string{"d0", "z0", "phi", "theta", "qoverp"}

func main() {
	log.SetPrefix("resplot: ")
	log.SetFlags(0)
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	if *parIdx < 0 || *parIdx >= track.NumParams {
		return fmt.Errorf("parameter index out of range: %d", *parIdx)
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

	p := plot.New()
	p.Title.Text = fmt.Sprintf("sigma(%s) vs pt", parNames[*parIdx])
	p.X.Label.Text = "pt threshold [GeV]"
	p.Y.Label.Text = fmt.Sprintf("sigma(%s)", parNames[*parIdx])

	ptThr := table.PtThresholds()
	etaThr := table.EtaThresholds()

	var lines []interface{}
	for ieta := 0; ieta < len(etaThr); ieta++ {
		var pts plotter.XYs
		for ipt := 0; ipt < len(ptThr); ipt++ {
			cov, ok := bank[smear.BinKey{Pt: ipt, Eta: ieta}]
			if !ok {
				continue
			}
			pts = append(pts, plotter.XY{
				X: ptThr[ipt],
				Y: math.Sqrt(cov.At(*parIdx, *parIdx)),
			})
		}
		if len(pts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("eta>%.2f", etaThr[ieta]), pts)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, *outPath); err != nil {
		return err
	}
	log.Printf("wrote %s", *outPath)
	return nil
}
