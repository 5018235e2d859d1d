package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	lib "github.com/theoremus-urban-solutions/petrack2jpsvis"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/config"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// Version is set at build time
var Version = "0.1.0"

type flags struct {
	unit      string
	df        int
	outputDir string
	config    string
	logLevel  string
	logFormat string
	meters    bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "petrack2jpsvis [flags] <trajectory-file>",
		Short: "Convert PeTrack trajectories for JPSvis",
		Long: `Convert a PeTrack trajectory export into a JPSvis trajectory file and a
matching geometry.xml.

The unit and frame rate are taken from the PeTrack header. --unit is only
used when the header names no unit. Trajectories keep the input unit unless
--meters is given; geometry.xml is always in meters.

Example:
  petrack2jpsvis run01.txt
  petrack2jpsvis --unit m --df 5 -o out/ run01.txt
  petrack2jpsvis --meters run01.txt
  petrack2jpsvis --config petrack.yml run01.txt`,
		Version: Version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// past argument parsing, usage no longer helps
			cmd.SilenceUsage = true
			return run(cmd, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.unit, "unit", "u", "", "Coordinate unit when the header has none ("+units.GetValidUnitsString()+")")
	cmd.Flags().IntVarP(&f.df, "df", "d", 10, "Frame lookahead for speed estimation")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", ".", "Directory for the output files")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Optional YAML configuration file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "console", "Log format (console, json)")
	cmd.Flags().BoolVar(&f.meters, "meters", false, "Write trajectory coordinates in meters")
	return cmd
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f flags) (config.AppConfig, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("df") {
		cfg.Conversion.DF = f.df
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if f.meters {
		cfg.Output.TrajectoryUnit = units.M
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, f flags, input string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger, err := internal.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := lib.Run(ctx, lib.RunOptions{Input: input, Unit: f.unit, Config: cfg}, logger)
	if err != nil {
		logger.Error("conversion failed", zap.String("input", input), zap.Error(err))
		// already reported by the logger
		cmd.SilenceErrors = true
		return err
	}

	logger.Debug("outputs written",
		zap.String("trajectory", sum.TrajectoryFile),
		zap.String("geometry", sum.GeometryFile),
		zap.String("trajectory_unit", sum.TrajectoryUnit),
		zap.Strings("warnings", sum.Warnings),
	)
	return nil
}

// Execute runs the CLI
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
