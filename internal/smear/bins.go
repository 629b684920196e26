package smear

import "fmt"

// BinTable resolves continuous (pt, |eta|) values to the discrete bins of
// the resolution parametrisation. Both threshold tables are strictly
// ascending and fixed for the lifetime of the engine.
type BinTable struct {
	pt  []float64
	eta []float64
}

// NewBinTable builds a bin table from ascending pt (GeV) and |eta|
// thresholds.
func NewBinTable(pt, eta []float64) (*BinTable, error) {
	if len(pt) == 0 || len(eta) == 0 {
		return nil, fmt.Errorf("bin table needs at least one pt and one eta threshold")
	}
	if err := checkAscending("pt", pt); err != nil {
		return nil, err
	}
	if err := checkAscending("eta", eta); err != nil {
		return nil, err
	}
	return &BinTable{pt: append([]float64(nil), pt...), eta: append([]float64(nil), eta...)}, nil
}

func checkAscending(name string, xs []float64) error {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return fmt.Errorf("%s thresholds not strictly ascending at index %d: %v <= %v", name, i, xs[i], xs[i-1])
		}
	}
	return nil
}

// DefaultBinTable returns the binning the parametrisation was derived
// with: pt thresholds in GeV, |eta| thresholds starting at zero.
func DefaultBinTable() *BinTable {
	t, err := NewBinTable(
		[]float64{10, 20, 50, 100, 200, 250, 500, 750},
		[]float64{0.0, 0.4, 0.8, 1.05, 1.5, 1.7, 2.0, 2.25, 2.7},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// PtBin returns the largest index i with thresholds[i] < pt, or -1 when
// pt does not exceed the first threshold. -1 is a valid bin: it selects
// the low-pt entry of the covariance bank.
func (t *BinTable) PtBin(pt float64) int {
	bin := -1
	for i, thr := range t.pt {
		if pt > thr {
			bin = i
		}
	}
	return bin
}

// EtaBin returns the largest index i with thresholds[i] < absEta, or -1
// when absEta does not exceed the first threshold. Since the eta table
// starts at zero, -1 only occurs for |eta| == 0 exactly and is treated
// as a configuration error by the caller.
func (t *BinTable) EtaBin(absEta float64) int {
	bin := -1
	for i, thr := range t.eta {
		if absEta > thr {
			bin = i
		}
	}
	return bin
}

// NumPtBins returns the number of configured pt thresholds.
func (t *BinTable) NumPtBins() int { return len(t.pt) }

// NumEtaBins returns the number of configured eta thresholds.
func (t *BinTable) NumEtaBins() int { return len(t.eta) }

// PtThresholds returns a copy of the pt threshold table.
func (t *BinTable) PtThresholds() []float64 { return append([]float64(nil), t.pt...) }

// EtaThresholds returns a copy of the eta threshold table.
func (t *BinTable) EtaThresholds() []float64 { return append([]float64(nil), t.eta...) }
