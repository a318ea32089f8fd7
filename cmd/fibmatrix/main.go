// Command fibmatrix computes Fibonacci numbers with the linear, matrix and
// hybrid algorithms, compares them, or serves them over HTTP.
package main

import (
	"context"
	"os"
	"slices"

	"github.com/agbru/fibmatrix/internal/app"
	"github.com/agbru/fibmatrix/internal/config"
	apperrors "github.com/agbru/fibmatrix/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout, slices.Contains(os.Args[1:], "-json"))
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if config.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
