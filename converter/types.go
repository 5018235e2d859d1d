package converter

import (
	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/petrack"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// Defaults in meters and meters per second.
const (
	DefaultDF        = 10
	DefaultMaxSpeed  = 1.5
	DefaultSemiAxis  = 0.3
	DefaultHeight    = 1.75
	DefaultMarginM   = 1.0
	DefaultColorSpan = 255
)

// Options contains all configuration needed for one conversion.
// This struct is data-source agnostic and has no dependencies on config files.
type Options struct {
	// Unit is the working unit of the input coordinates (cm or m).
	Unit string

	// FPS is the frame rate used to turn frame offsets into seconds.
	FPS int

	// DF is the frame lookahead of the speed estimate.
	DF int

	// MaxSpeed in m/s maps to the top of the color range.
	MaxSpeed float64

	// SemiAxisA and SemiAxisB are the agent ellipse semi-axes in meters.
	SemiAxisA float64
	SemiAxisB float64

	// Height in meters is written as Z when a record has no z column.
	Height float64

	// Margin in meters is added around the trajectories' bounding box.
	Margin float64

	// OutputUnit is the unit of the written x, y, z, A and B columns. Empty
	// keeps the working unit. Speed, angle and color are unaffected.
	OutputUnit string
}

// DefaultOptions returns options for a centimeter PeTrack export at the
// default frame rate.
func DefaultOptions() Options {
	return Options{
		Unit:      units.CM,
		FPS:       petrack.DefaultFPS,
		DF:        DefaultDF,
		MaxSpeed:  DefaultMaxSpeed,
		SemiAxisA: DefaultSemiAxis,
		SemiAxisB: DefaultSemiAxis,
		Height:    DefaultHeight,
		Margin:    DefaultMarginM,
	}
}

// RenderAttributes are the per-run drawing constants in the working unit.
type RenderAttributes struct {
	Height    float64
	SemiAxisA float64
	SemiAxisB float64
}

// Result is the converted trajectory and its geometry.
type Result struct {
	// Rows are sorted by frame; rows of one frame keep their input order.
	Rows     []jpsvis.Row
	Geometry jpsvis.Geometry
	// Bounds is the padded box in the working unit.
	Bounds orb.Bound
	// Unit is the unit of the row coordinates and semi-axes.
	Unit string

	Agents int
	Frames int
	// ShortAgents lists agents written with sentinel speed and heading.
	ShortAgents []int
}
