package smear

import "testing"

func TestPtBin(t *testing.T) {
	table := DefaultBinTable()
	tests := []struct {
		name string
		pt   float64
		want int
	}{
		{"below first threshold", 5, -1},
		{"exactly first threshold", 10, -1},
		{"just above first", 10.1, 0},
		{"second bin", 25, 1},
		{"mid table", 150, 3},
		{"exactly a threshold", 200, 3},
		{"last bin", 900, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.PtBin(tt.pt); got != tt.want {
				t.Errorf("PtBin(%v) = %d, want %d", tt.pt, got, tt.want)
			}
		})
	}
}

func TestEtaBin(t *testing.T) {
	table := DefaultBinTable()
	tests := []struct {
		name   string
		absEta float64
		want   int
	}{
		{"exactly zero", 0.0, -1},
		{"barrel", 0.2, 0},
		{"second bin", 0.5, 1},
		{"exactly a threshold", 0.8, 1},
		{"endcap", 2.3, 7},
		{"beyond last threshold", 3.0, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.EtaBin(tt.absEta); got != tt.want {
				t.Errorf("EtaBin(%v) = %d, want %d", tt.absEta, got, tt.want)
			}
		})
	}
}

func TestNewBinTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		pt      []float64
		eta     []float64
		wantErr bool
	}{
		{"valid", []float64{10, 20}, []float64{0, 0.4}, false},
		{"empty pt", nil, []float64{0, 0.4}, true},
		{"empty eta", []float64{10}, nil, true},
		{"non-ascending pt", []float64{10, 10}, []float64{0}, true},
		{"descending eta", []float64{10}, []float64{0.4, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBinTable(tt.pt, tt.eta)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBinTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
