// Package app assembles the self-test harness: configuration, logging,
// metrics and tracing around the bignum subsystem's self-test hook.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/gitter-badger/OpenCKMS/internal/bignum"
	"github.com/gitter-badger/OpenCKMS/internal/config"
	apperrors "github.com/gitter-badger/OpenCKMS/internal/errors"
	"github.com/gitter-badger/OpenCKMS/internal/logging"
	"github.com/gitter-badger/OpenCKMS/internal/metrics"
)

// Application is the assembled self-test harness.
type Application struct {
	Config    config.AppConfig
	Log       logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets a custom logger, primarily for tests.
func WithLogger(log logging.Logger) AppOption {
	return func(a *Application) { a.Log = log }
}

// New creates an Application by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "bnselftest"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Log == nil {
		app.Log = newLogger(errWriter, cfg)
	}
	return app, nil
}

// newLogger builds the zerolog-backed logger for the configured verbosity.
func newLogger(w io.Writer, cfg config.AppConfig) logging.Logger {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	if cfg.Quiet {
		level = zerolog.ErrorLevel
	}
	zl := zerolog.New(w).With().Timestamp().Str("component", "bnselftest").Logger().Level(level)
	return logging.NewZerologAdapter(zl)
}

// IsHelpError reports whether the error came from -h / -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run executes the configured number of self-test trials and returns the
// process exit code.
func (a *Application) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	poolMetrics := metrics.NewPoolMetrics(registry)

	if a.Config.MetricsAddr != "" {
		a.serveMetrics(registry)
	}

	poolTrace := bignum.Trace(poolMetrics)
	if a.Config.Verbose {
		poolTrace = bignum.MultiTrace(poolMetrics, bignum.NewLoggingTrace(a.Log))
	}

	tracer := otel.Tracer("openckms/bnselftest")
	ctx, span := tracer.Start(ctx, "selftest",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("trials", a.Config.Trials),
			attribute.Int("parallel", a.Config.Parallel),
		))
	defer span.End()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.Parallel)
	for trial := 0; trial < a.Config.Trials; trial++ {
		trial := trial
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, trialSpan := tracer.Start(ctx, "trial",
				trace.WithAttributes(attribute.Int("trial", trial)))
			defer trialSpan.End()

			// Every trial owns its contexts; nothing is shared across
			// goroutines except the metrics sink.
			if err := bignum.SelfTest(bignum.WithTrace(poolTrace)); err != nil {
				return apperrors.WrapError(err, "trial %d", trial)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "self-test failed")
		return a.report(err)
	}

	a.Log.Info("self-test passed",
		logging.Int("trials", a.Config.Trials),
		logging.Float64("seconds", time.Since(start).Seconds()))
	return apperrors.ExitSuccess
}

// serveMetrics exposes the Prometheus registry on the configured address.
// Failures are logged, not fatal: observability must never block the
// self-test itself.
func (a *Application) serveMetrics(registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              a.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Error("metrics server failed", err,
				logging.String("addr", a.Config.MetricsAddr))
		}
	}()
}

// report logs the failure and maps it to an exit code.
func (a *Application) report(err error) int {
	a.Log.Error("self-test failed", err)

	var selfTestErr apperrors.SelfTestError
	switch {
	case apperrors.IsContextError(err):
		return apperrors.ExitErrorCanceled
	case errors.As(err, &selfTestErr):
		return apperrors.ExitErrorSelfTest
	default:
		return apperrors.ExitErrorGeneric
	}
}
