package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	CacheDir          string // directory of the local http cache
	CacheDB           string // optional postgres connection string, replaces the local cache
	NoCache           bool   // if true, every request goes to the telemetry source
	OutputDir         string // directory for the generated files
	HTML              bool   // if true, an interactive html map is written next to the png
	SourceURL         string // base url of the telemetry api
	Timeout           string // timeout for a single request against the telemetry api
	WaitForServices   string // duration to wait for the cache database to be ready
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, e.g. "debug:telemetry.* info:*"
	EnableTelemetry   bool   // enable otel traces and metrics
	TelemetryEndpoint string // OTLP/gRPC collector (host:port), stderr if empty
)

const (
	DefaultSourceURL = "https://api.openf1.org/v1"
	DefaultCacheDir  = "cache"
)

// Config holds the constants of a single comparison run.
type Config struct {
	Season      int
	Event       string
	SessionType string
	DriverA     model.DriverID
	DriverB     model.DriverID
	Minisectors int
	// if true a sample at exactly the lap distance goes into the last minisector
	// instead of an extra one
	ClampLastMinisector bool

	OutputDir string
	HTML      bool
	Width     float64 // inch
	Height    float64 // inch
	DPI       int
	LineWidth float64 // points
}

// Default returns the reference run: Belgium 2024 qualifying, NOR vs PIA, 25 minisectors.
func Default() Config {
	return Config{
		Season:      2024,
		Event:       "Belgium",
		SessionType: "Q",
		DriverA:     "NOR",
		DriverB:     "PIA",
		Minisectors: 25,
		OutputDir:   ".",
		Width:       18,
		Height:      10,
		DPI:         300,
		LineWidth:   5,
	}
}

func (c Config) SessionRef() model.SessionRef {
	return model.SessionRef{
		Season:      c.Season,
		Event:       c.Event,
		SessionType: c.SessionType,
	}
}

func (c Config) Drivers() [2]model.DriverID {
	return [2]model.DriverID{c.DriverA.Normalized(), c.DriverB.Normalized()}
}

// OutputName returns the file name of the image, e.g. 2024_nor_pia_q.png
func (c Config) OutputName(ext string) string {
	return strings.ToLower(fmt.Sprintf("%d_%s_%s_%s.%s",
		c.Season, c.DriverA, c.DriverB, c.SessionType, ext))
}

func (c Config) OutputPath(ext string) string {
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, c.OutputName(ext))
}

func (c Config) Validate() error {
	switch {
	case c.Minisectors < 1:
		return fmt.Errorf("%w: minisectors must be >= 1, got %d",
			model.ErrInvalidConfig, c.Minisectors)
	case c.DriverA.Normalized() == "" || c.DriverB.Normalized() == "":
		return fmt.Errorf("%w: two driver ids required", model.ErrInvalidConfig)
	case c.DriverA.Normalized() == c.DriverB.Normalized():
		return fmt.Errorf("%w: drivers must differ, got %s twice",
			model.ErrInvalidConfig, c.DriverA)
	case c.Season <= 0 || c.Event == "" || c.SessionType == "":
		return fmt.Errorf("%w: season, event and session type required",
			model.ErrInvalidConfig)
	case c.DPI <= 0 || c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: figure size and dpi must be positive",
			model.ErrInvalidConfig)
	}
	return nil
}
