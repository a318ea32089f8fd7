// Package app wires configuration, logging, calculators and the output
// surfaces (terminal, JSON, HTTP) into the fibmatrix command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/agbru/fibmatrix/internal/calibration"
	"github.com/agbru/fibmatrix/internal/cli"
	"github.com/agbru/fibmatrix/internal/config"
	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/logging"
	"github.com/agbru/fibmatrix/internal/orchestration"
	"github.com/agbru/fibmatrix/internal/server"
	"github.com/agbru/fibmatrix/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Application is one configured fibmatrix run.
type Application struct {
	Config  config.AppConfig
	Factory fibonacci.CalculatorFactory
	// Logger writes structured logs to ErrWriter.
	Logger    logging.Logger
	ErrWriter io.Writer

	logLevel zerolog.Level
}

// New parses args (program name first) and sets up logging on errWriter.
// It returns the flag.ErrHelp error unchanged when -h is given; see
// config.IsHelpError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fibonacci.GlobalFactory()

	programName := "fibmatrix"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	// Validated by ParseConfig.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.ConfigureGlobal(errWriter, level)

	return &Application{
		Config:    cfg,
		Factory:   factory,
		Logger:    logging.NewLogger(errWriter, "fibmatrix", level),
		ErrWriter: errWriter,
		logLevel:  level,
	}, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Logger == nil {
		a.Logger = logging.NewNopLogger()
	}
	if a.ErrWriter == nil {
		a.ErrWriter = io.Discard
	}
	f, _ := out.(*os.File)
	ui.InitTheme(a.Config.NoColor, f)

	switch {
	case a.Config.ServerMode:
		return a.runServer(ctx)
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	calc, err := a.Factory.Get("matrix")
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Calibration error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return calibration.Run(ctx, out, calc, calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: a.Config.CalibrationProfile != "",
	})
}

// applyCalibrationProfile replaces the default Strassen threshold with the
// calibrated one. A threshold given on the command line or in the
// environment is kept, even when it equals the default.
func (a *Application) applyCalibrationProfile() {
	if a.Config.CalibrationProfile == "" || a.Config.StrassenThresholdSet {
		return
	}
	updated, ok := calibration.ApplyProfile(a.Config, a.Config.CalibrationProfile)
	if !ok {
		a.Logger.Warn("calibration profile ignored", logging.String("path", a.Config.CalibrationProfile))
		return
	}
	a.Logger.Info("using calibrated Strassen threshold", logging.Int("threshold", updated.StrassenThreshold))
	a.Config = updated
}

func (a *Application) runServer(ctx context.Context) int {
	ctx, stop := SetupSignals(ctx)
	defer stop()

	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(logging.NewLogger(a.ErrWriter, "server", a.logLevel)))
	if err := srv.Start(ctx); err != nil {
		a.Logger.Error("server stopped", err)
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	a.applyCalibrationProfile()
	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "No calculator available for algorithm %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	a.Logger.Debug("starting calculations",
		logging.Int64("n", a.Config.N),
		logging.String("algo", a.Config.Algo),
		logging.Duration("timeout", a.Config.Timeout),
	)
	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config, out, a.progressObservers()...)
	for _, res := range results {
		if res.Err != nil {
			a.Logger.Warn("calculation failed", logging.String("algorithm", res.Name), logging.Err(res.Err))
		}
	}

	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config.Index(), out)
	}
	return orchestration.AnalyzeComparisonResults(results, a.Config, out)
}

// progressObservers logs calculation progress on ErrWriter when debug
// logging is enabled.
func (a *Application) progressObservers() []fibonacci.ProgressObserver {
	if a.logLevel > zerolog.DebugLevel {
		return nil
	}
	logger := logging.NewLogger(a.ErrWriter, "progress", a.logLevel).Zerolog()
	return []fibonacci.ProgressObserver{fibonacci.NewLoggingObserver(logger, 0.1)}
}

type jsonResult struct {
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
	Result    string `json:"result,omitempty"`
	Digits    int    `json:"digits,omitempty"`
	Error     string `json:"error,omitempty"`
}

type jsonReport struct {
	N          uint64       `json:"n"`
	Consistent bool         `json:"consistent"`
	Results    []jsonResult `json:"results"`
}

// printJSONResults writes the results as an indented JSON document and
// returns the exit code of the comparison.
func printJSONResults(results []orchestration.CalculationResult, n uint64, out io.Writer) int {
	checkErr := orchestration.CheckResults(results, n)
	report := jsonReport{
		N:          n,
		Consistent: checkErr == nil,
		Results:    make([]jsonResult, len(results)),
	}
	for i, res := range results {
		jr := jsonResult{Algorithm: res.Name, Duration: res.Duration.String()}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Result = res.Result.String()
			jr.Digits = len(jr.Result)
		}
		report.Results[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitCode(checkErr)
}
