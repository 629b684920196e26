package sink

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/fmom"
	_ "modernc.org/sqlite"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

func smearedTrack(d0 float64) *track.Smeared {
	p := &track.Particle{
		Mom:    fmom.NewPtEtaPhiM(25, 0.5, 1.0, 0.13957),
		Charge: 1,
	}
	tr := &track.Track{Mom: p.Mom, Charge: 1, Truth: p}
	out := &track.Smeared{
		Par:  track.Vector{d0, 0.1, 1.0, 1.1, 0.04},
		Mom:  fmom.NewPtEtaPhiM(24.7, 0.51, 1.01, 0.13957),
		Dxy:  d0,
		SDxy: 0.01,
		Orig: tr,
	}
	for i := range out.Cov {
		out.Cov[i] = float64(i)
	}
	return out
}

func TestWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.db")
	w, err := NewSQLite(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(smearedTrack(0.01)))
	require.NoError(t, w.Write(smearedTrack(0.02)))
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM smeared_tracks`).Scan(&n))
	require.Equal(t, 2, n)

	// seq preserves processing order
	rows, err := db.Query(`SELECT seq, d0, run_id FROM smeared_tracks ORDER BY seq`)
	require.NoError(t, err)
	defer rows.Close()

	var wantSeq int64
	wantD0 := []float64{0.01, 0.02}
	for rows.Next() {
		var seq int64
		var d0 float64
		var runID string
		require.NoError(t, rows.Scan(&seq, &d0, &runID))
		require.Equal(t, wantSeq, seq)
		require.InDelta(t, wantD0[wantSeq], d0, 1e-12)
		require.Equal(t, w.RunID(), runID)
		wantSeq++
	}
	require.NoError(t, rows.Err())
}

func TestSeparateRunsGetSeparateIDs(t *testing.T) {
	dir := t.TempDir()
	w1, err := NewSQLite(filepath.Join(dir, "tracks.db"))
	require.NoError(t, err)
	require.NoError(t, w1.Write(smearedTrack(0.01)))
	require.NoError(t, w1.Close())

	w2, err := NewSQLite(filepath.Join(dir, "tracks.db"))
	require.NoError(t, err)
	require.NoError(t, w2.Write(smearedTrack(0.02)))
	require.NoError(t, w2.Close())

	require.NotEqual(t, w1.RunID(), w2.RunID())
}
