package main

import (
	"encoding/json"
	"fmt"
	"os"

	planetview "github.com/SETI/rms-planetviewer"
	"github.com/SETI/rms-planetviewer/internal/vecmath"
)

// sceneFile is the on-disk geometry format: precomputed J2000 state
// vectors in kilometers, typically exported from an ephemeris run.
type sceneFile struct {
	Observer [3]float64 `json:"observer"`
	Bodies   []struct {
		ID       int        `json:"id"`
		Position [3]float64 `json:"position"`
		Radius   float64    `json:"radius"`
		Pole     [3]float64 `json:"pole"`
	} `json:"bodies"`
	RingPole   [3]float64 `json:"ring_pole"`
	Sun        [3]float64 `json:"sun"`
	SunAngular float64    `json:"sun_angular"`
}

type bodyState struct {
	position vecmath.Vec3
	radius   float64
	pole     vecmath.Vec3
}

// fileGeometry serves chart geometry from a loaded scene file.
type fileGeometry struct {
	observer   vecmath.Vec3
	bodies     map[int]bodyState
	ringPole   vecmath.Vec3
	sunDir     vecmath.Vec3
	sunAngular float64
}

var _ planetview.Geometry = (*fileGeometry)(nil)

// loadGeometry reads a scene file and indexes its bodies.
func loadGeometry(path string) (*fileGeometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geometry: %w", err)
	}
	var sf sceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse geometry %s: %w", path, err)
	}
	g := &fileGeometry{
		observer:   vecmath.Vec3(sf.Observer),
		bodies:     make(map[int]bodyState, len(sf.Bodies)),
		ringPole:   vecmath.Vec3(sf.RingPole).Hat(),
		sunDir:     vecmath.Vec3(sf.Sun).Hat(),
		sunAngular: sf.SunAngular,
	}
	for _, b := range sf.Bodies {
		g.bodies[b.ID] = bodyState{
			position: vecmath.Vec3(b.Position),
			radius:   b.Radius,
			pole:     vecmath.Vec3(b.Pole).Hat(),
		}
	}
	return g, nil
}

func (g *fileGeometry) ObserverPosition() (vecmath.Vec3, error) {
	return g.observer, nil
}

func (g *fileGeometry) BodyPosition(id int) (vecmath.Vec3, error) {
	b, ok := g.bodies[id]
	if !ok {
		return vecmath.Vec3{}, fmt.Errorf("geometry: no state for body %d", id)
	}
	return b.position, nil
}

func (g *fileGeometry) BodyRadius(id int) (float64, error) {
	b, ok := g.bodies[id]
	if !ok {
		return 0, fmt.Errorf("geometry: no state for body %d", id)
	}
	return b.radius, nil
}

// BodyPole falls back to the ring pole, then to celestial north, for
// bodies whose scene entry carries no axis of its own.
func (g *fileGeometry) BodyPole(id int) (vecmath.Vec3, error) {
	b, ok := g.bodies[id]
	if !ok {
		return vecmath.Vec3{}, fmt.Errorf("geometry: no state for body %d", id)
	}
	if b.pole.Norm() > 0 {
		return b.pole, nil
	}
	if g.ringPole.Norm() > 0 {
		return g.ringPole, nil
	}
	return vecmath.Vec3{0, 0, 1}, nil
}

func (g *fileGeometry) RingGeometry(id int) (vecmath.Vec3, error) {
	if g.ringPole.Norm() == 0 {
		return vecmath.Vec3{}, fmt.Errorf("geometry: no ring pole for body %d", id)
	}
	return g.ringPole, nil
}

func (g *fileGeometry) SunDirection(id int) (vecmath.Vec3, float64, error) {
	if g.sunDir.Norm() == 0 {
		return vecmath.Vec3{}, 0, fmt.Errorf("geometry: no sun state for body %d", id)
	}
	return g.sunDir, g.sunAngular, nil
}
