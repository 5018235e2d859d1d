// Package geometry builds the enclosing room JPSvis draws around a set of
// trajectories.
package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// ErrNoPositions is returned when there is nothing to enclose.
var ErrNoPositions = errors.New("no positions to enclose")

// ErrInvalidFactor is returned for a non-positive unit factor.
var ErrInvalidFactor = errors.New("unit factor must be positive")

// Wall names in the order they are written.
var wallOrder = []string{"bottom", "right", "top", "left"}

// Room is a synthesized geometry and the box it was built from.
type Room struct {
	Geometry jpsvis.Geometry
	// Working is the padded box in the trajectory's working unit.
	Working orb.Bound
	// Meters is Working converted to meters; the document uses these values.
	Meters orb.Bound
}

// Synthesize encloses points (working unit) in a rectangle grown by margin
// (working unit) on every side. The document coordinates are converted to
// meters with factor, the number of working units per meter.
func Synthesize(points []orb.Point, margin, factor float64) (*Room, error) {
	if len(points) == 0 {
		return nil, ErrNoPositions
	}
	if factor <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}

	working := orb.MultiPoint(points).Bound().Pad(margin)
	meters := orb.Bound{
		Min: orb.Point{units.ToMeters(working.Min.X(), factor), units.ToMeters(working.Min.Y(), factor)},
		Max: orb.Point{units.ToMeters(working.Max.X(), factor), units.ToMeters(working.Max.Y(), factor)},
	}

	return &Room{
		Geometry: Document(meters),
		Working:  working,
		Meters:   meters,
	}, nil
}

// Document returns a geometry with one room holding one rectangular subroom
// whose four walls trace b: bottom, right, top, left.
func Document(b orb.Bound) jpsvis.Geometry {
	ring := b.ToRing()
	walls := make([]jpsvis.Polygon, 0, len(wallOrder))
	for i := range wallOrder {
		walls = append(walls, jpsvis.Polygon{
			Caption: "wall",
			Type:    "internal",
			Vertices: []jpsvis.Vertex{
				{PX: ring[i].X(), PY: ring[i].Y()},
				{PX: ring[i+1].X(), PY: ring[i+1].Y()},
			},
		})
	}

	return jpsvis.Geometry{
		Version: jpsvis.GeometryVersion,
		Caption: "experiment",
		Unit:    jpsvis.UnitMeters,
		Rooms: []jpsvis.Room{{
			ID:      0,
			Caption: "room",
			SubRooms: []jpsvis.SubRoom{{
				ID:       0,
				Caption:  "subroom",
				Class:    "subroom",
				Polygons: walls,
			}},
		}},
	}
}
