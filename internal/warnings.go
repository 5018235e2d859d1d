package internal

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Warning type constants
const (
	// Header warnings
	WarningNoHeader     = "no_header"
	WarningNoFPS        = "no_fps"
	WarningNoUnit       = "no_unit"
	WarningUnitConflict = "unit_conflict"
	WarningUnknownUnit  = "unknown_unit"

	// Record warnings
	WarningMalformedRow   = "malformed_row"
	WarningDuplicateFrame = "duplicate_frame"

	// Kinematics warnings
	WarningShortTrajectory = "short_trajectory"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects warnings during conversion and outputs consolidated summaries
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, example string) {
	if w == nil {
		return
	}
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, example)
	}
}

// Count returns how many times warningType was recorded.
func (w *WarningAggregator) Count(warningType string) int {
	if w == nil || w.warnings[warningType] == nil {
		return 0
	}
	return w.warnings[warningType].count
}

// Types returns the recorded warning types in sorted order.
func (w *WarningAggregator) Types() []string {
	if w == nil {
		return nil
	}
	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// LogAll outputs all collected warnings in consolidated format, one entry per type
func (w *WarningAggregator) LogAll(logger *zap.Logger, source string) {
	if w == nil || len(w.warnings) == 0 {
		return
	}

	for _, warningType := range w.Types() {
		info := w.warnings[warningType]
		logger.Warn(w.formatWarningMessage(warningType, source, info),
			zap.String("warning", warningType),
			zap.Int("occurrences", info.count),
			zap.Strings("examples", info.examples),
		)
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, source string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningNoHeader:
		description = "no PeTrack header detected"
		action = "Using default frame rate and unit"
	case WarningNoFPS:
		description = "a header without a frame rate"
		action = "Using default frame rate"
	case WarningNoUnit:
		description = "no length unit in header or options"
		action = "Using default unit"
	case WarningUnitConflict:
		description = "a header unit that disagrees with the requested unit"
		action = "Using the header unit"
	case WarningUnknownUnit:
		description = "unsupported unit labels in the header"
		action = "Ignoring the label"
	case WarningMalformedRow:
		description = "data rows that could not be parsed"
		action = "Skipping the rows"
	case WarningDuplicateFrame:
		description = "repeated frames for the same agent"
		action = "Keeping the first sample"
	case WarningShortTrajectory:
		description = "agents with trajectories shorter than the lookahead window"
		action = "Writing placeholder speed 1 and angle 0 for those agents"
	default:
		description = "unknown issue"
		action = "Continuing with fallback behavior"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("File %s has %s (%d occurrences). %s. Examples: %s",
		source, description, info.count, action, examplesStr)
}
