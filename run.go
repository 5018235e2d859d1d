// Package petrack2jpsvis converts PeTrack trajectory exports into the
// trajectory and geometry files read by JPSvis.
//
// Run performs one conversion end to end. The sub-packages can be used on
// their own: petrack parses the header and data rows, converter builds the
// output rows and geometry, formatter writes them.
package petrack2jpsvis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/config"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/converter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/formatter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/petrack"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// RunOptions describes one conversion
type RunOptions struct {
	// Input is the PeTrack trajectory file.
	Input string
	// Unit is used only when the file header names no unit.
	Unit string
	// Config supplies the conversion constants and output location.
	Config config.AppConfig
}

// Summary reports what a conversion produced
type Summary struct {
	Input          string
	TrajectoryFile string
	GeometryFile   string
	Unit           string
	TrajectoryUnit string
	FPS            int
	Rows           int
	Agents         int
	Frames         int
	ShortAgents    []int
	// Warnings lists the warning kinds raised, sorted.
	Warnings []string
}

// Run converts opts.Input and writes the geometry file followed by the
// trajectory file into the configured output directory. Nothing is written
// when reading, parsing or converting fails. Warnings are logged once per
// kind when Run returns.
func Run(ctx context.Context, opts RunOptions, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if opts.Unit != "" && !units.IsValid(opts.Unit) {
		return nil, &converter.ConfigError{Field: "unit", Reason: fmt.Sprintf("%q is not one of %s", opts.Unit, units.GetValidUnitsString())}
	}

	source := filepath.Base(opts.Input)
	warn := internal.NewWarningAggregator()
	defer warn.LogAll(logger, source)

	lines, err := readLines(opts.Input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, err := cfg.HeaderParser(source).Parse(lines, warn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	records := petrack.ParseRecords(lines, header.DataStart, warn)
	unit := petrack.ResolveUnit(header, opts.Unit, cfg.Conversion.DefaultUnit, warn)

	logger.Debug("parsed input",
		zap.String("input", opts.Input),
		zap.Int("header_lines", len(header.Lines)),
		zap.Int("records", len(records)),
		zap.Int("fps", header.FPS),
		zap.String("unit", unit),
	)

	copts := cfg.ConverterOptions()
	copts.Unit = unit
	copts.FPS = header.FPS
	conv, err := converter.New(copts, logger)
	if err != nil {
		return nil, err
	}
	attrs := conv.Attributes()
	logger.Debug("render attributes",
		zap.Float64("factor", conv.Factor()),
		zap.Float64("height", attrs.Height),
		zap.Float64("semi_axis_a", attrs.SemiAxisA),
		zap.Float64("semi_axis_b", attrs.SemiAxisB),
		zap.String("output_unit", conv.OutputUnit()),
	)
	res, err := conv.Convert(records, warn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outDir := cfg.Output.Dir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, newIOError("mkdir", outDir, err)
	}

	geometryName := cfg.Output.GeometryFile
	if geometryName == "" {
		geometryName = petrack.GeometryRef
	}
	header.GeometryRef = geometryName

	geometryPath := filepath.Join(outDir, geometryName)
	if err := writeFile(geometryPath, func(w io.Writer) error {
		return formatter.WriteGeometry(w, res.Geometry)
	}); err != nil {
		return nil, err
	}

	trajectoryPath := filepath.Join(outDir, formatter.OutputFileName(opts.Input, cfg.Output.Prefix))
	if err := writeFile(trajectoryPath, func(w io.Writer) error {
		return formatter.WriteTrajectory(w, header.Text(cfg.Header.Description), res.Rows)
	}); err != nil {
		return nil, err
	}

	logger.Info("conversion complete",
		zap.String("input", opts.Input),
		zap.String("trajectory", trajectoryPath),
		zap.String("geometry", geometryPath),
		zap.Int("agents", res.Agents),
		zap.Int("frames", res.Frames),
		zap.Int("rows", len(res.Rows)),
	)

	return &Summary{
		Input:          opts.Input,
		TrajectoryFile: trajectoryPath,
		GeometryFile:   geometryPath,
		Unit:           unit,
		TrajectoryUnit: res.Unit,
		FPS:            header.FPS,
		Rows:           len(res.Rows),
		Agents:         res.Agents,
		Frames:         res.Frames,
		ShortAgents:    res.ShortAgents,
		Warnings:       warn.Types(),
	}, nil
}

func readLines(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newIOError("stat", path, err)
	}
	if info.IsDir() {
		return nil, newIOError("open", path, errIsDirectory)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newIOError("open", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, newIOError("read", path, err)
	}
	return lines, nil
}

// writeFile creates path, runs write and closes the file. A failed write
// removes the partial file.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return newIOError("create", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return newIOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return newIOError("close", path, err)
	}
	return nil
}
