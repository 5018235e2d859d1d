package converter

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/geometry"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/petrack"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/tracking"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// Converter turns PeTrack records into JPSvis output using fixed options
type Converter struct {
	opts   Options
	factor float64
	attrs  RenderAttributes
	// outUnit and outScale convert working-unit lengths for the rows.
	outUnit  string
	outScale float64
	logger   *zap.Logger
}

// New validates opts and prepares the unit-scaled constants.
func New(opts Options, logger *zap.Logger) (*Converter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	factor, err := units.Factor(opts.Unit)
	if err != nil {
		return nil, &ConfigError{Field: "unit", Reason: fmt.Sprintf("%q is not one of %s", opts.Unit, units.GetValidUnitsString())}
	}
	if opts.DF <= 0 {
		return nil, &ConfigError{Field: "df", Reason: fmt.Sprintf("must be positive, got %d", opts.DF)}
	}
	if opts.FPS <= 0 {
		return nil, &ConfigError{Field: "fps", Reason: fmt.Sprintf("must be positive, got %d", opts.FPS)}
	}
	for _, c := range []struct {
		field string
		value float64
	}{
		{"maxSpeed", opts.MaxSpeed},
		{"semiAxisA", opts.SemiAxisA},
		{"semiAxisB", opts.SemiAxisB},
		{"height", opts.Height},
	} {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return nil, &ConfigError{Field: c.field, Reason: fmt.Sprintf("must be a positive number, got %v", c.value)}
		}
	}
	if !(opts.Margin >= 0) || math.IsInf(opts.Margin, 0) {
		return nil, &ConfigError{Field: "margin", Reason: fmt.Sprintf("must not be negative, got %v", opts.Margin)}
	}

	outUnit, outScale := opts.Unit, 1.0
	if opts.OutputUnit != "" {
		outFactor, err := units.Factor(opts.OutputUnit)
		if err != nil {
			return nil, &ConfigError{Field: "outputUnit", Reason: fmt.Sprintf("%q is not one of %s", opts.OutputUnit, units.GetValidUnitsString())}
		}
		outUnit, outScale = opts.OutputUnit, outFactor/factor
	}

	return &Converter{
		opts:   opts,
		factor: factor,
		attrs: RenderAttributes{
			Height:    units.FromMeters(opts.Height, factor),
			SemiAxisA: units.FromMeters(opts.SemiAxisA, factor),
			SemiAxisB: units.FromMeters(opts.SemiAxisB, factor),
		},
		outUnit:  outUnit,
		outScale: outScale,
		logger:   logger,
	}, nil
}

// Factor returns the working units per meter.
func (c *Converter) Factor() float64 { return c.factor }

// Attributes returns the rendering constants in the working unit.
func (c *Converter) Attributes() RenderAttributes { return c.attrs }

// OutputUnit returns the unit the rows are written in.
func (c *Converter) OutputUnit() string { return c.outUnit }

// Convert runs the full pipeline over records. The input slice is not modified.
func (c *Converter) Convert(records []petrack.Record, warn *internal.WarningAggregator) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("convert: %w", geometry.ErrNoPositions)
	}

	sorted := make([]petrack.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	sorted = dropDuplicates(sorted, warn)

	rows := make([]jpsvis.Row, len(sorted))
	points := make([]orb.Point, len(sorted))
	frames := make(map[int]struct{})
	for i, r := range sorted {
		rows[i] = c.augment(r)
		points[i] = orb.Point{r.X, r.Y}
		frames[r.Frame] = struct{}{}
	}

	agents, byAgent := partition(sorted)
	var short []int
	for _, id := range agents {
		idx := byAgent[id]
		track := make([]r2.Vec, len(idx))
		for j, i := range idx {
			track[j] = r2.Vec{X: sorted[i].X, Y: sorted[i].Y}
		}

		k := tracking.Estimate(track, c.opts.DF, c.opts.FPS)
		if k.Sentinel {
			short = append(short, id)
			warn.Add(internal.WarningShortTrajectory, fmt.Sprintf("agent %d (%d frames, df %d)", id, len(idx), c.opts.DF))
		}
		for j, i := range idx {
			rows[i].Angle = k.Heading[j]
			rows[i].Color = c.color(k.Speed[j])
		}
	}

	room, err := geometry.Synthesize(points, units.FromMeters(c.opts.Margin, c.factor), c.factor)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	if c.outScale != 1 {
		for i := range rows {
			rows[i].X *= c.outScale
			rows[i].Y *= c.outScale
			rows[i].Z *= c.outScale
			rows[i].A *= c.outScale
			rows[i].B *= c.outScale
		}
	}

	c.logger.Debug("converted trajectories",
		zap.Int("rows", len(rows)),
		zap.Int("agents", len(agents)),
		zap.Int("frames", len(frames)),
		zap.Int("short_agents", len(short)),
		zap.String("unit", c.opts.Unit),
		zap.String("output_unit", c.outUnit),
	)

	return &Result{
		Rows:        rows,
		Geometry:    room.Geometry,
		Bounds:      room.Working,
		Unit:        c.outUnit,
		Agents:      len(agents),
		Frames:      len(frames),
		ShortAgents: short,
	}, nil
}

func (c *Converter) augment(r petrack.Record) jpsvis.Row {
	z := c.attrs.Height
	if r.HasZ {
		z = r.Z
	}
	return jpsvis.Row{
		ID:    r.AgentID,
		Frame: r.Frame,
		X:     r.X,
		Y:     r.Y,
		Z:     z,
		A:     c.attrs.SemiAxisA,
		B:     c.attrs.SemiAxisB,
	}
}

// color scales speed against the maximum speed in the working unit. Values
// above the maximum are not clamped.
func (c *Converter) color(speed float64) int {
	return int(speed / (c.opts.MaxSpeed * c.factor) * DefaultColorSpan)
}

// dropDuplicates keeps the first row of every (agent, frame) pair.
func dropDuplicates(records []petrack.Record, warn *internal.WarningAggregator) []petrack.Record {
	type key struct{ agent, frame int }
	seen := make(map[key]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		k := key{r.AgentID, r.Frame}
		if _, dup := seen[k]; dup {
			warn.Add(internal.WarningDuplicateFrame, fmt.Sprintf("agent %d frame %d", r.AgentID, r.Frame))
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// partition returns agent IDs in order of first appearance and the row
// indices of each agent in frame order.
func partition(records []petrack.Record) ([]int, map[int][]int) {
	var order []int
	byAgent := make(map[int][]int)
	for i, r := range records {
		if _, ok := byAgent[r.AgentID]; !ok {
			order = append(order, r.AgentID)
		}
		byAgent[r.AgentID] = append(byAgent[r.AgentID], i)
	}
	return order, byAgent
}
