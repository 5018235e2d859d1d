package config

// ConversionConfig contains the numeric conversion parameters
type ConversionConfig struct {
	DF          int     `yaml:"df" validate:"gt=0"`
	DefaultFPS  int     `yaml:"defaultFps" validate:"gt=0"`
	DefaultUnit string  `yaml:"defaultUnit" validate:"oneof=cm m"`
	MaxSpeed    float64 `yaml:"maxSpeed" validate:"gt=0"` // m/s
	SemiAxis    float64 `yaml:"semiAxis" validate:"gt=0"` // m
	Height      float64 `yaml:"height" validate:"gt=0"`   // m
	Margin      float64 `yaml:"margin" validate:"gte=0"`  // m
}

// HeaderConfig controls how the PeTrack header is recognized and rewritten
type HeaderConfig struct {
	Markers     []string `yaml:"markers" validate:"min=1,dive,required"`
	Description string   `yaml:"description"`
}

// OutputConfig contains output location and naming
type OutputConfig struct {
	Dir          string `yaml:"dir" validate:"required"`
	Prefix       string `yaml:"prefix" validate:"required"`
	GeometryFile string `yaml:"geometryFile" validate:"required"`
	// TrajectoryUnit converts the written coordinates; empty keeps the input unit.
	TrajectoryUnit string `yaml:"trajectoryUnit" validate:"omitempty,oneof=cm m"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Header     HeaderConfig     `yaml:"header"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}
