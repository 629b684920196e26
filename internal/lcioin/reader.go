// Package lcioin reads truth-level charged particles from LCIO event
// files and converts them to track candidates for the smearing engine.
package lcioin

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
	"go-hep.org/x/hep/lcio"

	"github.com/HarikrishnanNB/delphes-rave/internal/track"
)

// Read returns one track candidate per stable charged particle in the
// named collection, in event and collection order. The production vertex
// stands in for the perigee impact point.
func Read(path, collection string) ([]*track.Track, error) {
	rdr, err := lcio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rdr.Close()

	var tracks []*track.Track
	for rdr.Next() {
		evt := rdr.Event()
		coll, ok := evt.Get(collection).(*lcio.McParticleContainer)
		if !ok {
			return nil, fmt.Errorf("%s: collection %q is not an MCParticle collection", path, collection)
		}
		for i := range coll.Particles {
			mc := &coll.Particles[i]
			if mc.GenStatus != 1 || mc.Charge == 0 {
				continue
			}
			t, err := fromMcParticle(mc)
			if err != nil {
				continue
			}
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func fromMcParticle(mc *lcio.McParticle) (*track.Track, error) {
	px, py, pz := mc.P[0], mc.P[1], mc.P[2]
	pt := math.Hypot(px, py)
	if pt == 0 {
		return nil, fmt.Errorf("particle with zero transverse momentum")
	}
	p := math.Sqrt(px*px + py*py + pz*pz)
	eta := 0.5 * math.Log((p+pz)/(p-pz))
	phi := math.Atan2(py, px)

	particle := &track.Particle{
		Mom:    fmom.NewPtEtaPhiM(pt, eta, phi, mc.Mass),
		Charge: int(math.Round(float64(mc.Charge))),
		Vertex: mc.Vertex,
	}
	return &track.Track{
		Mom:    particle.Mom,
		Charge: particle.Charge,
		Xd:     mc.Vertex[0],
		Yd:     mc.Vertex[1],
		Zd:     mc.Vertex[2],
		Truth:  particle,
	}, nil
}
