package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envSource resolves FIBMATRIX_* keys from the process environment first and
// from the .env file second. Flags explicitly set on the command line are
// never overridden.
type envSource struct {
	fs       *flag.FlagSet
	fileVars map[string]string
	lookup   func(string) (string, bool)
}

// newEnvSource loads the .env file named by the -env-file flag or, failing
// that, by FIBMATRIX_ENV_FILE. No file means only the environment is used.
func newEnvSource(fs *flag.FlagSet, envFile string) (*envSource, error) {
	src := &envSource{fs: fs, lookup: os.LookupEnv}
	if envFile == "" {
		envFile = os.Getenv(EnvPrefix + "ENV_FILE")
	}
	if envFile == "" {
		return src, nil
	}

	data, err := os.ReadFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	vars, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", envFile, err)
	}
	src.fileVars = vars
	return src, nil
}

func (e *envSource) get(key string) (string, bool) {
	name := EnvPrefix + key
	if val, ok := e.lookup(name); ok && val != "" {
		return val, true
	}
	if val, ok := e.fileVars[name]; ok && val != "" {
		return val, true
	}
	return "", false
}

func (e *envSource) has(key string) bool {
	_, ok := e.get(key)
	return ok
}

// isFlagSet checks if any of names was explicitly set on the command line.
func (e *envSource) isFlagSet(names ...string) bool {
	found := false
	e.fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

func (e *envSource) str(dst *string, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		*dst = val
	}
}

func (e *envSource) int64(dst *int64, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = parsed
		}
	}
}

func (e *envSource) int(dst *int, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func (e *envSource) float(dst *float64, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = parsed
		}
	}
}

func (e *envSource) duration(dst *time.Duration, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			*dst = parsed
		}
	}
}

// bool accepts "true", "1", "yes" and "false", "0", "no" (case-insensitive).
// Anything else leaves dst unchanged.
func (e *envSource) bool(dst *bool, key string, flags ...string) {
	if e.isFlagSet(flags...) {
		return
	}
	if val, ok := e.get(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			*dst = true
		case "false", "0", "no":
			*dst = false
		}
	}
}

// applyOverrides applies the environment to every field whose flag was not
// given explicitly.
//
// Supported variables (all prefixed with FIBMATRIX_): N, ALGO, TIMEOUT,
// STRASSEN_THRESHOLD, VERBOSE, DETAILS, JSON, QUIET, HEX, NO_COLOR, SERVER,
// PORT, MAX_N, RATE_LIMIT, RATE_BURST, CALIBRATE, CALIBRATION_PROFILE,
// LOG_LEVEL.
func (e *envSource) applyOverrides(c *AppConfig) {
	e.int64(&c.N, "N", "n")
	e.str(&c.Algo, "ALGO", "algo")
	e.duration(&c.Timeout, "TIMEOUT", "timeout")
	e.int(&c.StrassenThreshold, "STRASSEN_THRESHOLD", "strassen-threshold")

	e.bool(&c.Verbose, "VERBOSE", "v")
	e.bool(&c.Details, "DETAILS", "d", "details")
	e.bool(&c.JSONOutput, "JSON", "json")
	e.bool(&c.Quiet, "QUIET", "quiet", "q")
	e.bool(&c.HexOutput, "HEX", "hex")
	e.bool(&c.NoColor, "NO_COLOR", "no-color")

	e.bool(&c.ServerMode, "SERVER", "server")
	e.str(&c.Port, "PORT", "port")
	e.int64(&c.MaxN, "MAX_N", "max-n")
	e.float(&c.RateLimit, "RATE_LIMIT", "rate-limit")
	e.int(&c.RateBurst, "RATE_BURST", "rate-burst")
	e.bool(&c.Calibrate, "CALIBRATE", "calibrate")
	e.str(&c.CalibrationProfile, "CALIBRATION_PROFILE", "calibration-profile")
	e.str(&c.LogLevel, "LOG_LEVEL", "log-level")
}
