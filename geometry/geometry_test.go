package geometry

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
)

func TestSynthesize_CentimeterBox(t *testing.T) {
	points := []orb.Point{{0, 0}, {10, 5}, {3, 2}, {7, 4}}

	room, err := Synthesize(points, 100, 100)
	require.NoError(t, err)

	const eps = 1e-9
	assert.InDelta(t, -100, room.Working.Min.X(), eps)
	assert.InDelta(t, 110, room.Working.Max.X(), eps)
	assert.InDelta(t, -100, room.Working.Min.Y(), eps)
	assert.InDelta(t, 105, room.Working.Max.Y(), eps)

	assert.InDelta(t, -1, room.Meters.Min.X(), eps)
	assert.InDelta(t, 1.1, room.Meters.Max.X(), eps)
	assert.InDelta(t, -1, room.Meters.Min.Y(), eps)
	assert.InDelta(t, 1.05, room.Meters.Max.Y(), eps)

	t.Logf("✓ box %v cm -> %v m", room.Working, room.Meters)
}

func TestSynthesize_MeterInputIsUnchanged(t *testing.T) {
	room, err := Synthesize([]orb.Point{{2, 3}, {4, 8}}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{5, 9}}, room.Meters)
	assert.Equal(t, room.Working, room.Meters)
}

func TestSynthesize_Document(t *testing.T) {
	room, err := Synthesize([]orb.Point{{0, 0}, {10, 5}}, 100, 100)
	require.NoError(t, err)

	g := room.Geometry
	assert.Equal(t, "0.8", g.Version)
	assert.Equal(t, "experiment", g.Caption)
	assert.Equal(t, "m", g.Unit)
	require.Len(t, g.Rooms, 1)
	require.Len(t, g.Rooms[0].SubRooms, 1)

	sub := g.Rooms[0].SubRooms[0]
	assert.Equal(t, "subroom", sub.Class)
	require.Len(t, sub.Polygons, 4)

	want := [][2]jpsvis.Vertex{
		{{PX: -1, PY: -1}, {PX: 1.1, PY: -1}},     // bottom
		{{PX: 1.1, PY: -1}, {PX: 1.1, PY: 1.05}},  // right
		{{PX: 1.1, PY: 1.05}, {PX: -1, PY: 1.05}}, // top
		{{PX: -1, PY: 1.05}, {PX: -1, PY: -1}},    // left
	}
	for i, p := range sub.Polygons {
		assert.Equal(t, "wall", p.Caption)
		assert.Equal(t, "internal", p.Type)
		require.Len(t, p.Vertices, 2)
		for j, v := range p.Vertices {
			assert.InDelta(t, want[i][j].PX, v.PX, 1e-9, "polygon %d vertex %d px", i, j)
			assert.InDelta(t, want[i][j].PY, v.PY, 1e-9, "polygon %d vertex %d py", i, j)
		}
	}
}

func TestSynthesize_Errors(t *testing.T) {
	_, err := Synthesize(nil, 100, 100)
	assert.True(t, errors.Is(err, ErrNoPositions))

	_, err = Synthesize([]orb.Point{{0, 0}}, 1, 0)
	assert.True(t, errors.Is(err, ErrInvalidFactor))
}

func TestSynthesize_SinglePoint(t *testing.T) {
	room, err := Synthesize([]orb.Point{{50, 50}}, 100, 100)
	require.NoError(t, err)
	assert.InDelta(t, 2, room.Meters.Max.X()-room.Meters.Min.X(), 1e-9)
	assert.InDelta(t, 2, room.Meters.Max.Y()-room.Meters.Min.Y(), 1e-9)
}
