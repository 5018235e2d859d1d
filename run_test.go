package petrack2jpsvis

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/config"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/converter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/formatter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/petrack"
)

func runOptions(t *testing.T, input string) (RunOptions, string) {
	t.Helper()
	out := t.TempDir()
	cfg := config.Default()
	cfg.Output.Dir = out
	return RunOptions{Input: input, Config: cfg}, out
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_SampleExport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	opts, out := runOptions(t, filepath.Join("testdata", "run01.txt"))

	sum, err := Run(context.Background(), opts, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "cm", sum.Unit)
	assert.Equal(t, 25, sum.FPS)
	assert.Equal(t, 3, sum.Agents)
	assert.Equal(t, 30, sum.Frames)
	assert.Equal(t, 64, sum.Rows)
	assert.Equal(t, []int{3}, sum.ShortAgents)
	assert.Equal(t, []string{internal.WarningShortTrajectory}, sum.Warnings)
	assert.ElementsMatch(t, []string{"geometry.xml", "jps_run01.txt"}, listFiles(t, out))

	data, err := os.ReadFile(sum.TrajectoryFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	assert.Equal(t, "# description: "+config.DefaultDescription, lines[0])
	assert.Equal(t, "# PeTrack project: /experiments/corridor/run01.pet", lines[1])
	assert.Equal(t, "# framerate: 25", lines[6])
	assert.Equal(t, "# geometry: geometry.xml", lines[7])
	assert.Equal(t, "# "+petrack.ColumnNames, lines[8])
	require.Len(t, lines, 9+64)

	// Agent 1 walks 4 cm per frame east at 25 fps.
	first := strings.Split(lines[9], "\t")
	require.Len(t, first, 9)
	assert.Equal(t, []string{"1", "0", "10.00", "20.00", "172.00", "30.00", "30.00", "0.00"}, first[:8])
	color, err := strconv.Atoi(first[8])
	require.NoError(t, err)
	assert.InDelta(t, 170, color, 1)

	frame := -1
	for _, l := range lines[9:] {
		f, err := strconv.Atoi(strings.Split(l, "\t")[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f, frame, "rows must be ordered by frame")
		frame = f
	}

	gf, err := os.Open(sum.GeometryFile)
	require.NoError(t, err)
	defer gf.Close()
	g, err := formatter.ReadGeometry(gf)
	require.NoError(t, err)
	bottom := g.Rooms[0].SubRooms[0].Polygons[0].Vertices
	assert.InDelta(t, -0.9, bottom[0].PX, 1e-9)
	assert.InDelta(t, -1.5, bottom[0].PY, 1e-9)
	assert.InDelta(t, 3.0, bottom[1].PX, 1e-9)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel)
	assert.Equal(t, 1, warnings.Len(), "one log entry per warning kind")
	assert.Equal(t, 1, logs.FilterMessage("conversion complete").Len())
	t.Logf("✓ converted %d rows for %d agents", sum.Rows, sum.Agents)
}

func TestRun_MissingInput(t *testing.T) {
	opts, out := runOptions(t, filepath.Join(t.TempDir(), "does-not-exist.txt"))

	sum, err := Run(context.Background(), opts, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, sum)

	var ioe *IOError
	require.True(t, errors.As(err, &ioe), "want *IOError, got %T", err)
	assert.Equal(t, opts.Input, ioe.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, listFiles(t, out), "no output may be written")
}

func TestRun_InputIsDirectory(t *testing.T) {
	opts, out := runOptions(t, t.TempDir())
	_, err := Run(context.Background(), opts, nil)

	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "open", ioe.Op)
	assert.Empty(t, listFiles(t, out))
}

func TestRun_FatalErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "bad frame rate",
			input: "# PeTrack\n# framerate: fast fps\n1 0 0 0\n",
			check: func(t *testing.T, err error) {
				var pe *petrack.ParseError
				assert.True(t, errors.As(err, &pe), "want *petrack.ParseError, got %v", err)
			},
		},
		{
			name:  "no data rows",
			input: "# PeTrack\n# framerate: 25 fps\n",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "no positions")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := filepath.Join(t.TempDir(), "in.txt")
			require.NoError(t, os.WriteFile(input, []byte(tt.input), 0o644))
			opts, out := runOptions(t, input)

			_, err := Run(context.Background(), opts, zap.NewNop())
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, listFiles(t, out))
		})
	}
}

func TestRun_UnitOverride(t *testing.T) {
	input := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(input, []byte("1 0 1.0 2.0\n1 1 1.1 2.0\n"), 0o644))

	t.Run("fills a missing header unit", func(t *testing.T) {
		opts, _ := runOptions(t, input)
		opts.Unit = "m"
		sum, err := Run(context.Background(), opts, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "m", sum.Unit)
		assert.Equal(t, petrack.DefaultFPS, sum.FPS)
		assert.Contains(t, sum.Warnings, internal.WarningNoHeader)
		assert.NotContains(t, sum.Warnings, internal.WarningNoUnit)
	})

	t.Run("invalid override", func(t *testing.T) {
		opts, out := runOptions(t, input)
		opts.Unit = "ft"
		_, err := Run(context.Background(), opts, zap.NewNop())
		var ce *converter.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "unit", ce.Field)
		assert.Empty(t, listFiles(t, out))
	})
}

func TestRun_TrajectoryUnitMeters(t *testing.T) {
	opts, _ := runOptions(t, filepath.Join("testdata", "run01.txt"))
	opts.Config.Output.TrajectoryUnit = "m"

	sum, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "cm", sum.Unit)
	assert.Equal(t, "m", sum.TrajectoryUnit)

	data, err := os.ReadFile(sum.TrajectoryFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 9+64)

	first := strings.Split(lines[9], "\t")
	require.Len(t, first, 9)
	assert.Equal(t, []string{"1", "0", "0.10", "0.20", "1.72", "0.30", "0.30", "0.00"}, first[:8])
	color, err := strconv.Atoi(first[8])
	require.NoError(t, err)
	assert.InDelta(t, 170, color, 1, "color follows the speed, not the written unit")

	gf, err := os.Open(sum.GeometryFile)
	require.NoError(t, err)
	defer gf.Close()
	g, err := formatter.ReadGeometry(gf)
	require.NoError(t, err)
	assert.InDelta(t, -0.9, g.Rooms[0].SubRooms[0].Polygons[0].Vertices[0].PX, 1e-9)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts, out := runOptions(t, filepath.Join("testdata", "run01.txt"))
	_, err := Run(ctx, opts, zap.NewNop())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, listFiles(t, out))
}

func TestRun_CustomOutputNames(t *testing.T) {
	opts, out := runOptions(t, filepath.Join("testdata", "run01.txt"))
	opts.Config.Output.Dir = filepath.Join(out, "nested", "dir")
	opts.Config.Output.Prefix = "vis_"
	opts.Config.Output.GeometryFile = "corridor.xml"

	sum, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "nested", "dir", "vis_run01.txt"), sum.TrajectoryFile)

	data, err := os.ReadFile(sum.TrajectoryFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# geometry: corridor.xml\n")
}
