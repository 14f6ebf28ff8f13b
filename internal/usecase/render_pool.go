package usecase

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

// RenderPool bounds how many images are drawn at once.
type RenderPool struct {
	pool    *ants.Pool
	logger  *logging.Logger
	timeout time.Duration
}

type PoolOption func(*RenderPool)

// WithJobTimeout bounds each Do call, queueing included.
func WithJobTimeout(d time.Duration) PoolOption {
	return func(p *RenderPool) {
		p.timeout = d
	}
}

func NewRenderPool(size int, logger *logging.Logger, opts ...PoolOption) (*RenderPool, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		logger.Error("render worker panic", "panic", fmt.Sprint(v))
	}))
	if err != nil {
		return nil, fmt.Errorf("create render pool: %w", err)
	}
	rp := &RenderPool{pool: pool, logger: logger}
	for _, opt := range opts {
		opt(rp)
	}
	return rp, nil
}

// Do runs fn on a worker and waits for it. A context cancelled while the
// job is still queued skips the job.
func (p *RenderPool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	submitted := make(chan error, 1)

	go func() {
		submitted <- p.pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				done <- err
				return
			}
			defer func() {
				if rec := recover(); rec != nil {
					done <- fmt.Errorf("%w: worker panic: %v", ErrRenderFailed, rec)
				}
			}()
			done <- fn(ctx)
		})
	}()

	select {
	case err := <-submitted:
		if err != nil {
			return fmt.Errorf("submit render job: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Go schedules fn without waiting for it.
func (p *RenderPool) Go(fn func()) error {
	if err := p.pool.Submit(fn); err != nil {
		return fmt.Errorf("submit job: %w", err)
	}
	return nil
}

func (p *RenderPool) Running() int {
	return p.pool.Running()
}

func (p *RenderPool) Release() {
	p.pool.Release()
}
