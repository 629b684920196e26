// Package config loads the engine configuration. The JSON schema is
// overlay-style: fields omitted from the file keep their default values,
// so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the engine configuration, read once at initialization.
type Config struct {
	// SmearParamFile is the path to the parametrisation database.
	SmearParamFile string `json:"smear_param_file"`

	// SmearingMultiple scales every loaded covariance matrix; the global
	// smearing-strength knob.
	SmearingMultiple float64 `json:"smearing_multiple"`

	// Seed for the Gaussian stream.
	Seed uint64 `json:"seed"`

	// InputCollection names the truth-particle collection in LCIO input.
	InputCollection string `json:"input_collection"`

	// OutputPath is the smeared-track output database.
	OutputPath string `json:"output_path"`

	// PtBins and EtaBins override the default binning. They must match
	// the binning the parametrisation file was produced with.
	PtBins  []float64 `json:"pt_bins,omitempty"`
	EtaBins []float64 `json:"eta_bins,omitempty"`
}

// Default returns the engine defaults.
func Default() *Config {
	return &Config{
		SmearParamFile:   "parametrisation.db",
		SmearingMultiple: 1.0,
		Seed:             1,
		InputCollection:  "MCParticle",
		OutputPath:       "tracks.db",
	}
}

// Load reads a JSON config from path, applied on top of Default. The
// file must have a .json extension and stay under the size cap.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.SmearingMultiple <= 0 {
		return nil, fmt.Errorf("smearing_multiple must be positive, got %v", cfg.SmearingMultiple)
	}
	return cfg, nil
}
