package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/converter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/formatter"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/petrack"
	"github.com/theoremus-urban-solutions/petrack2jpsvis/units"
)

// DefaultDescription is written as the first header line of every output.
const DefaultDescription = "trajectories converted by petrack2jpsvis"

// Default returns the configuration used when no file is given
func Default() AppConfig {
	markers := make([]string, len(petrack.DefaultMarkers))
	copy(markers, petrack.DefaultMarkers)

	return AppConfig{
		Conversion: ConversionConfig{
			DF:          converter.DefaultDF,
			DefaultFPS:  petrack.DefaultFPS,
			DefaultUnit: units.CM,
			MaxSpeed:    converter.DefaultMaxSpeed,
			SemiAxis:    converter.DefaultSemiAxis,
			Height:      converter.DefaultHeight,
			Margin:      converter.DefaultMarginM,
		},
		Header: HeaderConfig{
			Markers:     markers,
			Description: DefaultDescription,
		},
		Output: OutputConfig{
			Dir:          ".",
			Prefix:       formatter.DefaultPrefix,
			GeometryFile: petrack.GeometryRef,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the validated defaults.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals YAML from r into cfg. Unknown keys are rejected and an
// empty document leaves cfg unchanged.
func Decode(r io.Reader, cfg *AppConfig) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags and reports the first violation as a
// *converter.ConfigError named by its YAML path.
func (c AppConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	field := strings.TrimPrefix(fe.Namespace(), "AppConfig.")
	reason := "failed " + fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return &converter.ConfigError{Field: field, Reason: fmt.Sprintf("%s (got %v)", reason, fe.Value())}
}

// ConverterOptions maps the conversion section into converter.Options. Unit
// and FPS start at the configured defaults; the caller replaces them with
// the values resolved from the file header.
func (c AppConfig) ConverterOptions() converter.Options {
	return converter.Options{
		Unit:      c.Conversion.DefaultUnit,
		FPS:       c.Conversion.DefaultFPS,
		DF:        c.Conversion.DF,
		MaxSpeed:  c.Conversion.MaxSpeed,
		SemiAxisA: c.Conversion.SemiAxis,
		SemiAxisB: c.Conversion.SemiAxis,
		Height:    c.Conversion.Height,
		Margin:    c.Conversion.Margin,

		OutputUnit: c.Output.TrajectoryUnit,
	}
}

// HeaderParser returns a header parser using the configured markers and
// default frame rate.
func (c AppConfig) HeaderParser(source string) *petrack.HeaderParser {
	return &petrack.HeaderParser{
		Markers:    c.Header.Markers,
		DefaultFPS: c.Conversion.DefaultFPS,
		Source:     source,
	}
}
