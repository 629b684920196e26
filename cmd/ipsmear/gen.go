package main

import (
	"math"
	"math/rand/v2"

	"go-hep.org/x/hep/fmom"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

const (
	genPtMin  = 1.0   // GeV
	genPtMax  = 900.0 // GeV
	genEtaMax = 2.6
	genMass   = 0.13957 // charged pion
	genVtxRMS = 0.05    // mm, beam-spot-like spread
)

// genTracks produces a pseudo-event stream of charged tracks with
// log-uniform pt, uniform eta and phi, and a Gaussian production vertex.
// Used for validation runs without an LCIO input.
func genTracks(n int, seed uint64) []*track.Track {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	tracks := make([]*track.Track, 0, n)
	for i := 0; i < n; i++ {
		pt := genPtMin * math.Exp(rng.Float64()*math.Log(genPtMax/genPtMin))
		eta := (2*rng.Float64() - 1) * genEtaMax
		phi := (2*rng.Float64() - 1) * math.Pi
		charge := 1
		if rng.IntN(2) == 0 {
			charge = -1
		}
		vtx := [3]float64{
			rng.NormFloat64() * genVtxRMS,
			rng.NormFloat64() * genVtxRMS,
			rng.NormFloat64() * genVtxRMS * 10,
		}
		p := &track.Particle{
			Mom:    fmom.NewPtEtaPhiM(pt, eta, phi, genMass),
			Charge: charge,
			Vertex: vtx,
		}
		tracks = append(tracks, &track.Track{
			Mom:    p.Mom,
			Charge: charge,
			Xd:     vtx[0],
			Yd:     vtx[1],
			Zd:     vtx[2],
			Truth:  p,
		})
	}
	return tracks
}
