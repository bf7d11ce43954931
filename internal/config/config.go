package config

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/gitter-badger/OpenCKMS/internal/bignum"
	apperrors "github.com/gitter-badger/OpenCKMS/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "OPENCKMS_"

// Default configuration values.
const (
	// DefaultTrials is the number of independent self-test rounds. Each
	// trial owns its contexts, so trials above 1 additionally shake out
	// accidental sharing between call chains.
	DefaultTrials = 4

	// DefaultTimeout bounds the whole self-test run. The test is fast;
	// the bound exists so a wedged run fails instead of hanging subsystem
	// initialisation.
	DefaultTimeout = 30 * time.Second
)

// AppConfig holds the parsed configuration for the self-test harness.
type AppConfig struct {
	// PoolSize is the standard pool capacity for contexts created outside
	// the fixed-size test scenarios. 0 means the package default.
	PoolSize int

	// Trials is the number of independent self-test rounds to run.
	Trials int

	// Parallel caps how many trials run concurrently. 0 means one per CPU.
	Parallel int

	// Timeout bounds the whole run.
	Timeout time.Duration

	// MetricsAddr, when non-empty, is the listen address for the
	// Prometheus /metrics endpoint (e.g. ":9090").
	MetricsAddr string

	// Verbose enables debug-level logging of every pool transition.
	Verbose bool

	// Quiet suppresses everything but errors.
	Quiet bool
}

// ParseConfig parses command-line flags and environment overrides into an
// AppConfig. Priority: CLI flags > environment variables > defaults.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		PoolSize: bignum.DefaultPoolSize,
		Trials:   DefaultTrials,
		Timeout:  DefaultTimeout,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.IntVar(&cfg.PoolSize, "pool-size", cfg.PoolSize, "standard pool capacity in bignums")
	fs.IntVar(&cfg.Trials, "trials", cfg.Trials, "number of independent self-test rounds")
	fs.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "max concurrent trials (0 = one per CPU)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall time limit for the run")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for Prometheus metrics (empty = disabled)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log every pool transition (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log every pool transition")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "errors only (shorthand)")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "errors only")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	applyEnvOverrides(&cfg, fs)

	if cfg.Parallel == 0 {
		cfg.Parallel = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the run cannot proceed with.
func (c AppConfig) Validate() error {
	if c.PoolSize < bignum.SelfTestPoolSize {
		return apperrors.NewConfigError("pool size %d below the self-test minimum of %d",
			c.PoolSize, bignum.SelfTestPoolSize)
	}
	if c.Trials < 1 {
		return apperrors.NewConfigError("trials must be at least 1, got %d", c.Trials)
	}
	if c.Parallel < 1 {
		return apperrors.NewConfigError("parallel must be at least 1, got %d", c.Parallel)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Verbose && c.Quiet {
		return apperrors.NewConfigError("verbose and quiet are mutually exclusive")
	}
	return nil
}
