package jpsvis

// GeometryVersion is the geometry schema version JPSvis expects.
const GeometryVersion = "0.8"

// UnitMeters is the only geometry unit JPSvis supports.
const UnitMeters = "m"

// Row is one agent at one frame in the trajectory file
type Row struct {
	ID    int
	Frame int
	X     float64
	Y     float64
	Z     float64
	// A and B are the ellipse semi-axes.
	A float64
	B float64
	// Angle is the heading in degrees.
	Angle float64
	Color int
}

// Geometry is the root of geometry.xml
type Geometry struct {
	Version string
	Caption string
	Unit    string
	Rooms   []Room
}

// Room groups subrooms
type Room struct {
	ID       int
	Caption  string
	SubRooms []SubRoom
}

// SubRoom is a walkable area bounded by wall polygons. AX, BY and CZ are the
// coefficients of its floor plane.
type SubRoom struct {
	ID       int
	Caption  string
	Class    string
	AX       float64
	BY       float64
	CZ       float64
	Polygons []Polygon
}

// Polygon is a wall made of consecutive vertices
type Polygon struct {
	Caption  string
	Type     string
	Vertices []Vertex
}

// Vertex is a polygon corner in meters
type Vertex struct {
	PX float64
	PY float64
}
