package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SmearingMultiple != 1.0 {
		t.Errorf("default smearing multiple = %v, want 1.0", cfg.SmearingMultiple)
	}
	if cfg.InputCollection != "MCParticle" {
		t.Errorf("default input collection = %q", cfg.InputCollection)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"seed": 99, "smear_param_file": "custom.db"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Seed = 99
	want.SmearParamFile = "custom.db"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBinOverrides(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{"pt_bins": [10, 30], "eta_bins": [0, 1.0]}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.PtBins) != 2 || len(cfg.EtaBins) != 2 {
		t.Errorf("bin overrides not applied: %+v", cfg)
	}
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "cfg.yaml", `{}`},
		{"invalid json", "cfg.json", `{`},
		{"non-positive multiplier", "cfg.json", `{"smearing_multiple": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
