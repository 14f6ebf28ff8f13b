package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/ssl-bot/internal/config"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

// Telemetry owns tracing export, continuous profiling and the pprof
// listener for the life of the process.
type Telemetry struct {
	flushTraces  func(context.Context) error
	stopProfiler func() error
	pprof        *http.Server
	logger       *logging.Logger
}

// Start brings up every enabled backend. If one fails, the ones already
// started are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{
		flushTraces:  noopFlush,
		stopProfiler: func() error { return nil },
		logger:       logger,
	}

	var err error
	if t.flushTraces, err = InitUptrace(cfg, logger); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	if t.stopProfiler, err = InitPyroscope(cfg, logger); err != nil {
		_ = t.flushTraces(context.Background())
		return nil, fmt.Errorf("init profiler: %w", err)
	}
	if t.pprof, err = StartPprofServer(cfg, logger); err != nil {
		_ = t.Shutdown(context.Background())
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	return t, nil
}

// Shutdown stops profiling and flushes pending spans. Traces go last so
// spans recorded during shutdown still export.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if err := stopPprofServer(ctx, t.pprof); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof server: %w", err))
	}
	if err := t.stopProfiler(); err != nil {
		errs = append(errs, fmt.Errorf("stop profiler: %w", err))
	}
	if err := t.flushTraces(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	if len(errs) == 0 {
		t.logger.Info("telemetry stopped")
	}
	return errors.Join(errs...)
}
