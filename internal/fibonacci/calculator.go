package fibonacci

//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibmatrix_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fibmatrix_calculation_duration_seconds",
			Help:    "The duration of Fibonacci calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		},
		[]string{"algorithm"},
	)
)

// Calculator defines the public interface for a Fibonacci calculator.
// It is the abstraction the orchestration layer and the HTTP server use to
// run any of the registered algorithms.
type Calculator interface {
	// Calculate computes F(n). It supports cancellation through ctx and sends
	// progress updates, tagged with calcIndex, to progressChan (which may be
	// nil). Updates are dropped rather than blocking when the channel is full.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error)

	// Name returns the registry name of the algorithm (e.g. "hybrid").
	Name() string
}

// coreCalculator is a bare algorithm, without metrics or progress plumbing.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error)
	Name() string
}

// FibCalculator decorates a coreCalculator with tracing, metrics, debug
// logging and the final 100% progress report.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core in a FibCalculator. It panics if core is nil.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: the `coreCalculator` implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name delegates to the wrapped algorithm.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate adapts progressChan into a ChannelObserver and runs
// CalculateWithObservers.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// ObservableCalculator is a Calculator that can report progress to arbitrary
// observers, not only to a channel.
type ObservableCalculator interface {
	Calculator
	CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (*big.Int, error)
}

// RunWithObservers computes F(n) with calc, sending progress to progressChan
// (may be nil) and to every observer. Calculators that are not observable
// only feed progressChan.
func RunWithObservers(ctx context.Context, calc Calculator, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options, observers ...ProgressObserver) (*big.Int, error) {
	oc, ok := calc.(ObservableCalculator)
	if !ok || len(observers) == 0 {
		return calc.Calculate(ctx, progressChan, calcIndex, n, opts)
	}
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	for _, o := range observers {
		subject.Register(o)
	}
	return oc.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// spanAttributes describes a calculation on its trace span. The index is
// recorded as a decimal string: otel integers are signed 64-bit.
func spanAttributes(algo string, n uint64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fibonacci.algorithm", algo),
		attribute.String("fibonacci.n", strconv.FormatUint(n, 10)),
	}
}

// CalculateWithObservers computes F(n) and notifies every observer
// registered on subject (nil means no progress reporting).
func (c *FibCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (result *big.Int, err error) {
	algoName := c.core.Name()
	ctx, span := otel.Tracer("fibmatrix/fibonacci").Start(ctx, "Calculate")
	span.SetAttributes(spanAttributes(algoName, n)...)
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	var reporter ProgressReporter
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	}

	result, err = c.core.CalculateCore(ctx, reporter, n, opts)
	if err == nil && reporter != nil {
		reporter(1.0)
	}
	return result, err
}
