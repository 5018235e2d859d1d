package petrack

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/internal"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

const (
	// CommentMarker starts every header line.
	CommentMarker = "#"

	// FPSKeyword follows the frame-rate value in a header line.
	FPSKeyword = "fps"

	// DefaultFPS is used when the header has no frame rate.
	DefaultFPS = 16

	// GeometryRef is the geometry file referenced from the output header.
	GeometryRef = "geometry.xml"

	// ColumnNames is the column line of the output trajectory file.
	ColumnNames = "ID\tFR\tX\tY\tZ\tA\tB\tANGLE\tCOLOR"
)

// DefaultMarkers identify a PeTrack header: the product name, and the column
// header comment PeTrack writes above the data rows.
var DefaultMarkers = []string{"PeTrack", "id frame"}

var (
	coordUnitPattern   = regexp.MustCompile(`(?i)\bx\s*/\s*([a-z]+)`)
	bracketUnitPattern = regexp.MustCompile(`(?i)\[\s*(?:in\s+)?([a-z]+)\s*\]`)
	// the frame rate is only read after this keyword, so paths such as
	// run01_25fps.trc elsewhere in the header are never taken for it
	framerateKeyword = regexp.MustCompile(`(?i)\bframe\s*rate\b`)
	// the token right before a whole-word "fps", e.g. "25 fps" or ":25fps"
	fpsPattern = regexp.MustCompile(`(?i)(?:^|[\s:=])([^\s:=]+?)\s*` + FPSKeyword + `\b`)
)

// ErrInvalidFPS is wrapped by ParseError when the frame rate is not a
// positive integer.
var ErrInvalidFPS = errors.New("frame rate must be a positive integer")

// ParseError reports a frame-rate token that cannot be used.
type ParseError struct {
	Line  int // 1-based
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse frame rate %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Header is the parsed comment block of a PeTrack file.
type Header struct {
	// Lines are the retained comment lines, verbatim.
	Lines []string
	// FPS is the header frame rate, or DefaultFPS when HadFPS is false.
	FPS int
	// Unit is the header unit label; empty when HadUnit is false.
	Unit string

	HadHeader bool
	HadFPS    bool
	HadUnit   bool

	// DataStart is the index of the first line not consumed as header.
	DataStart int

	GeometryRef string
}

type headerState int

const (
	stateNotStarted headerState = iota
	stateInHeader
	stateDone
)

// HeaderParser extracts a Header from the first lines of a file.
type HeaderParser struct {
	// Markers are matched case-insensitively against comment lines to detect
	// the start of the header.
	Markers []string
	// DefaultFPS replaces a missing frame rate.
	DefaultFPS int
	// Source names the input in warning examples.
	Source string
}

// NewHeaderParser returns a parser with the PeTrack markers and defaults.
func NewHeaderParser() *HeaderParser {
	return &HeaderParser{
		Markers:    DefaultMarkers,
		DefaultFPS: DefaultFPS,
	}
}

// Parse runs the header state machine over lines. It stops at the first
// non-comment line after the header; that line is left for ParseRecords.
// The only error is a frame-rate token that is not a positive integer.
func (p *HeaderParser) Parse(lines []string, warn *internal.WarningAggregator) (Header, error) {
	h := Header{
		DataStart:   len(lines),
		GeometryRef: GeometryRef,
	}
	markers := make([]string, 0, len(p.Markers))
	for _, m := range p.Markers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, strings.ToLower(m))
		}
	}

	state := stateNotStarted
	for i := 0; i < len(lines) && state != stateDone; i++ {
		line := lines[i]
		comment := isComment(line)

		switch state {
		case stateNotStarted:
			if !comment {
				if strings.TrimSpace(line) != "" {
					h.DataStart = i
					state = stateDone
				}
				continue
			}
			if !containsAny(strings.ToLower(line), markers) {
				continue
			}
			h.HadHeader = true
			state = stateInHeader
			if err := p.consume(&h, line, i, warn); err != nil {
				return h, err
			}
		case stateInHeader:
			if !comment {
				h.DataStart = i
				state = stateDone
				continue
			}
			if err := p.consume(&h, line, i, warn); err != nil {
				return h, err
			}
		}
	}

	if !h.HadHeader {
		warn.Add(internal.WarningNoHeader, p.source())
	} else if !h.HadFPS {
		warn.Add(internal.WarningNoFPS, p.source())
	}
	if !h.HadFPS {
		h.FPS = p.defaultFPS()
	}
	return h, nil
}

// consume retains one header line and runs the unit and fps extractions.
func (p *HeaderParser) consume(h *Header, line string, idx int, warn *internal.WarningAggregator) error {
	h.Lines = append(h.Lines, line)

	if !h.HadUnit {
		if label, ok := extractUnit(line); ok {
			if units.IsValid(label) {
				h.Unit = label
				h.HadUnit = true
			} else {
				warn.Add(internal.WarningUnknownUnit, fmt.Sprintf("line %d: %s", idx+1, label))
			}
		}
	}

	if !h.HadFPS {
		if m := frameRateToken(line); m != nil {
			token := m[1]
			fps, err := strconv.Atoi(token)
			if err != nil {
				return &ParseError{Line: idx + 1, Token: token, Err: err}
			}
			if fps <= 0 {
				return &ParseError{Line: idx + 1, Token: token, Err: ErrInvalidFPS}
			}
			h.FPS = fps
			h.HadFPS = true
		}
	}
	return nil
}

func (p *HeaderParser) source() string {
	if p.Source == "" {
		return "input"
	}
	return p.Source
}

func (p *HeaderParser) defaultFPS() int {
	if p.DefaultFPS > 0 {
		return p.DefaultFPS
	}
	return DefaultFPS
}

// Text returns the output header block without comment markers: the
// description (when not empty), the retained lines, then the frame rate,
// geometry reference and column lines. The retained PeTrack "framerate"
// line stays in; JPSvis uses the last framerate line, the appended one.
func (h Header) Text(description string) []string {
	out := make([]string, 0, len(h.Lines)+4)
	if description != "" {
		out = append(out, "description: "+description)
	}
	for _, l := range h.Lines {
		l = strings.TrimPrefix(strings.TrimLeft(l, " \t"), CommentMarker)
		out = append(out, strings.TrimPrefix(l, " "))
	}
	ref := h.GeometryRef
	if ref == "" {
		ref = GeometryRef
	}
	out = append(out,
		fmt.Sprintf("framerate: %d", h.FPS),
		"geometry: "+ref,
		ColumnNames,
	)
	return out
}

// ResolveUnit picks the working unit. A header unit is authoritative; the
// override only fills in when the header has none. With neither, fallback is
// used and a warning recorded.
func ResolveUnit(h Header, override, fallback string, warn *internal.WarningAggregator) string {
	if h.HadUnit {
		if override != "" && override != h.Unit {
			warn.Add(internal.WarningUnitConflict, fmt.Sprintf("header %s, requested %s", h.Unit, override))
		}
		return h.Unit
	}
	if override != "" {
		return override
	}
	warn.Add(internal.WarningNoUnit, fallback)
	return fallback
}

func extractUnit(line string) (string, bool) {
	if m := coordUnitPattern.FindStringSubmatch(line); m != nil {
		return strings.ToLower(m[1]), true
	}
	if m := bracketUnitPattern.FindStringSubmatch(line); m != nil {
		return strings.ToLower(m[1]), true
	}
	return "", false
}

// frameRateToken returns the fps submatch of a "framerate ... fps" line.
func frameRateToken(line string) []string {
	loc := framerateKeyword.FindStringIndex(line)
	if loc == nil {
		return nil
	}
	return fpsPattern.FindStringSubmatch(line[loc[1]:])
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), CommentMarker)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
