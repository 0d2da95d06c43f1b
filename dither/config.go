package dither

import (
	"fmt"
	"strings"
)

// Method selects a dithering algorithm.
type Method string

const (
	Threshold      Method = "threshold"
	FloydSteinberg Method = "floyd-steinberg"
	Atkinson       Method = "atkinson"
	Burkes         Method = "burkes"
	Bayer2         Method = "bayer-2x2"
	Bayer4         Method = "bayer-4x4"
	Bayer8         Method = "bayer-8x8"
)

// Methods lists every supported method name.
var Methods = []Method{Threshold, FloydSteinberg, Atkinson, Burkes, Bayer2, Bayer4, Bayer8}

// DefaultThreshold puts the cut at exactly half luminance.
const DefaultThreshold = 128

// Config is the caller-facing description of a dithering call.
type Config struct {
	Method Method
	// Threshold is the cut level in 0..255; luminance below Threshold/256
	// becomes ink, and pure black is ink at any level. For ordered methods
	// it shifts the matrix thresholds. Nil selects DefaultThreshold.
	Threshold *int
	// Invert swaps ink and background in the output.
	Invert bool
}

// DefaultConfig returns a Floyd-Steinberg configuration at the default
// threshold.
func DefaultConfig() Config {
	return Config{Method: FloydSteinberg}
}

// Level returns a pointer to n for Config.Threshold.
func Level(n int) *int {
	return &n
}

// ConfigError reports an invalid configuration parameter.
type ConfigError struct {
	Param string
	Value any
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dither: invalid %s %v: %s", e.Param, e.Value, e.Msg)
}

// ParseMethod converts a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", &ConfigError{Param: "method", Value: s, Msg: "unknown dithering method"}
}

// Validate checks every field.
func (c Config) Validate() error {
	if m, err := ParseMethod(string(c.Method)); err != nil {
		return err
	} else if m != c.Method {
		return &ConfigError{Param: "method", Value: c.Method, Msg: "method names are lower case"}
	}
	if t := c.Level(); t < 0 || t > 255 {
		return &ConfigError{Param: "threshold", Value: t, Msg: "must be within 0..255"}
	}
	return nil
}

// Level returns the threshold, or DefaultThreshold when none is set.
func (c Config) Level() int {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// Cut returns the normalized threshold level.
func (c Config) Cut() float64 {
	return float64(c.Level()) / 256
}

// Ordered reports whether the method uses a Bayer matrix.
func (m Method) Ordered() bool {
	_, ok := matrices[m]
	return ok
}

// Diffusing reports whether the method uses an error-diffusion kernel.
func (m Method) Diffusing() bool {
	_, ok := kernels[m]
	return ok
}
