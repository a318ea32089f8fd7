// Package config parses the fibmatrix configuration from command-line flags,
// FIBMATRIX_* environment variables and an optional .env file, and validates
// the result.
//
// Priority is flags > process environment > .env file > defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/logging"
)

// EnvPrefix is the prefix for all environment variables read by fibmatrix.
const EnvPrefix = "FIBMATRIX_"

// Default configuration values.
const (
	DefaultN                 int64 = 100_000
	DefaultTimeout                 = 5 * time.Minute
	DefaultPort                    = "8080"
	DefaultAlgo                    = "all"
	DefaultStrassenThreshold       = fibonacci.DefaultStrassenThreshold
	DefaultMaxN              int64 = 10_000_000
	DefaultLogLevel                = "info"
	DefaultRateLimit               = 10.0
	DefaultRateBurst               = 20
)

// AppConfig holds every setting of a fibmatrix run.
type AppConfig struct {
	// N is the index to compute. Negative values are accepted and clamped
	// to 0 by the calculators.
	N int64
	// Algo is "all" or one registered algorithm name.
	Algo    string
	Timeout time.Duration
	// StrassenThreshold is the operand size in bits above which matrix
	// products use Strassen-Winograd.
	StrassenThreshold int
	// StrassenThresholdSet records that the threshold came from the command
	// line or the environment rather than the default.
	StrassenThresholdSet bool

	Verbose    bool
	Details    bool
	JSONOutput bool
	Quiet      bool
	HexOutput  bool
	NoColor    bool

	ServerMode bool
	Port       string
	// MaxN is the largest index the HTTP server accepts. 0 disables the
	// guard.
	MaxN int64
	// RateLimit is the sustained requests per second allowed per client by
	// the server; RateBurst the bucket size.
	RateLimit float64
	RateBurst int

	// Calibrate times the matrix algorithm with several Strassen thresholds
	// instead of computing F(N).
	Calibrate bool
	// CalibrationProfile is the profile written by -calibrate and read by
	// normal runs that keep the default Strassen threshold.
	CalibrationProfile string

	LogLevel string
	// EnvFile is the path of a .env file to load before applying
	// environment overrides.
	EnvFile string
}

// ToCalculationOptions converts the configuration into calculator options.
func (c AppConfig) ToCalculationOptions() fibonacci.Options {
	return fibonacci.Options{
		StrassenThreshold: c.StrassenThreshold,
	}
}

// Index returns N as the unsigned index passed to calculators, clamping
// negative values to 0.
func (c AppConfig) Index() uint64 {
	if c.N < 0 {
		return 0
	}
	return uint64(c.N)
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.StrassenThreshold < 0 {
		return apperrors.NewConfigError("Strassen threshold cannot be negative: %d", c.StrassenThreshold)
	}
	if c.MaxN < 0 {
		return apperrors.NewConfigError("max-n cannot be negative: %d", c.MaxN)
	}
	if c.ServerMode && c.Calibrate {
		return apperrors.NewConfigError("-server and -calibrate cannot be combined")
	}
	if c.ServerMode && (c.RateLimit <= 0 || c.RateBurst <= 0) {
		return apperrors.NewConfigError("rate limit and burst must be strictly positive (got %g, %d)", c.RateLimit, c.RateBurst)
	}
	if c.Algo != DefaultAlgo && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies the .env file and environment overrides, and validates it.
// Usage and errors are printed to errorWriter. flag.ErrHelp is returned
// unchanged when -h is given.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Int64Var(&config.N, "n", DefaultN, "Index n of the Fibonacci number to calculate (negative values are treated as 0).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.IntVar(&config.StrassenThreshold, "strassen-threshold", DefaultStrassenThreshold, "Threshold (in bits) to switch to Strassen's algorithm in matrix multiplication.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full value of the result (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.HexOutput, "hex", false, "Display result in hexadecimal format.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.Int64Var(&config.MaxN, "max-n", DefaultMaxN, "Largest n accepted by the HTTP server (0 for no limit).")
	fs.Float64Var(&config.RateLimit, "rate-limit", DefaultRateLimit, "Requests per second allowed per client in server mode.")
	fs.IntVar(&config.RateBurst, "rate-burst", DefaultRateBurst, "Burst size of the per-client rate limiter.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Search the fastest Strassen threshold for this machine.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Calibration profile to save (-calibrate) or load (default threshold only).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.StringVar(&config.EnvFile, "env-file", "", "Path of a .env file with FIBMATRIX_* settings.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	env, err := newEnvSource(fs, config.EnvFile)
	if err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	env.applyOverrides(&config)
	config.StrassenThresholdSet = env.isFlagSet("strassen-threshold") || env.has("STRASSEN_THRESHOLD")

	config.Algo = strings.ToLower(strings.TrimSpace(config.Algo))
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

// IsHelpError reports whether err means -h or -help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s [options]\n\n", fs.Name())
		fmt.Fprintln(out, "Computes F(n) with the linear, matrix and hybrid algorithms and compares them.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEvery option can also be set as %s<OPTION> in the environment or in the -env-file.\n", EnvPrefix)
	}
}
