// Package sink persists smeared tracks. The engine only depends on the
// Writer interface; the shipped implementation writes a columnar sqlite
// table, one row per track, tagged with a per-run identifier.
package sink

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// Writer receives smeared tracks in processing order.
type Writer interface {
	Write(t *track.Smeared) error
	Close() error
}

const tracksSchema = `
	CREATE TABLE IF NOT EXISTS smeared_tracks (
		run_id            TEXT,
		seq               BIGINT,
		d0                DOUBLE,
		z0                DOUBLE,
		phi               DOUBLE,
		theta             DOUBLE,
		qoverp            DOUBLE,
		cov               BLOB,
		pt                DOUBLE,
		eta               DOUBLE,
		mass              DOUBLE,
		xd                DOUBLE,
		yd                DOUBLE,
		zd                DOUBLE,
		dxy               DOUBLE,
		sdxy              DOUBLE,
		truth_pt          DOUBLE,
		truth_eta         DOUBLE,
		truth_phi         DOUBLE,
		truth_charge      BIGINT,
		timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// SQLite writes smeared tracks to a sqlite file. The seq column records
// processing order, so readers can rely on output order matching input
// order.
type SQLite struct {
	db    *sql.DB
	runID string
	seq   int64
}

var _ Writer = (*SQLite)(nil)

// NewSQLite opens (or creates) the output file and starts a new run.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(tracksSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing output schema: %w", err)
	}
	return &SQLite{db: db, runID: uuid.New().String()}, nil
}

// RunID returns the identifier tagged onto every row of this run.
func (w *SQLite) RunID() string { return w.runID }

// Write appends one smeared track.
func (w *SQLite) Write(t *track.Smeared) error {
	cov := make([]byte, len(t.Cov)*8)
	for i, v := range t.Cov {
		binary.LittleEndian.PutUint64(cov[i*8:], math.Float64bits(v))
	}
	truth := t.Orig.Truth
	_, err := w.db.Exec(`
		INSERT INTO smeared_tracks (
			run_id, seq, d0, z0, phi, theta, qoverp, cov,
			pt, eta, mass, xd, yd, zd, dxy, sdxy,
			truth_pt, truth_eta, truth_phi, truth_charge
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.runID, w.seq,
		t.Par[track.D0], t.Par[track.Z0], t.Par[track.Phi], t.Par[track.Theta], t.Par[track.QOverP],
		cov,
		t.Mom.Pt(), t.Mom.Eta(), t.Mom.M(),
		t.Xd, t.Yd, t.Zd, t.Dxy, t.SDxy,
		truth.Mom.Pt(), truth.Mom.Eta(), truth.Mom.Phi(), truth.Charge,
	)
	if err != nil {
		return fmt.Errorf("writing track %d: %w", w.seq, err)
	}
	w.seq++
	return nil
}

// Close closes the output file.
func (w *SQLite) Close() error { return w.db.Close() }
