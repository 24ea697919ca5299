package minikanren

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gitrdm/lazykanren/internal/parallel"
)

var tracer = otel.Tracer("github.com/gitrdm/lazykanren/pkg/minikanren")

// Runner evaluates queries with a configuration, a logger and tracing.
// Every query gets a run id that appears in its log records and span.
//
// Runner is safe for concurrent use: it holds no per-query state, and the
// states a search produces are immutable.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	pool   *parallel.WorkerPool
}

// NewRunner creates a runner.
//
// Inputs:
//
//	cfg - Runner settings. Zero fields take their defaults.
//	logger - Logger for query logs. If nil, uses slog.Default().
//
// Outputs:
//
//	*Runner - The configured runner.
//	error - Non-nil if cfg is invalid.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Runner{
		cfg:    cfg,
		logger: logger,
		pool:   parallel.NewWorkerPool(cfg.Parallelism),
	}, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// start returns the state every search of r begins from.
func (r *Runner) start(logger *slog.Logger) State {
	s := NewState().WithReifyMaxDepth(r.cfg.ReifyMaxDepth)
	if r.cfg.TraceSearch {
		s = s.withTraceLogger(logger)
	}
	return s
}

// limit resolves a caller's solution limit against MaxSolutions.
func (r *Runner) limit(n int) int {
	if n <= 0 || (r.cfg.MaxSolutions > 0 && n > r.cfg.MaxSolutions) {
		return r.cfg.MaxSolutions
	}
	return n
}

// each runs goal and passes up to n solutions to fn, stopping early on the
// first fn error or on cancellation.
func (r *Runner) each(ctx context.Context, op string, goal Goal, n int, fn func(State) error) (err error) {
	runID := uuid.NewString()
	n = r.limit(n)
	ctx, span := tracer.Start(ctx, "minikanren."+op, trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("limit", n),
	))
	defer span.End()

	logger := r.logger.With(slog.String("run_id", runID), slog.String("op", op))
	logger.DebugContext(ctx, "query started", slog.Int("limit", n))
	start := time.Now()
	count := 0

	defer func() {
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("solutions", count))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			outcome := "error"
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				outcome = "cancelled"
			}
			queryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
			logger.WarnContext(ctx, "query stopped", slog.Int("solutions", count), slog.Duration("elapsed", elapsed), slog.Any("error", err))
			return
		}
		queryDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
		logger.DebugContext(ctx, "query finished", slog.Int("solutions", count), slog.Duration("elapsed", elapsed))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	for st := range SolveFrom(r.start(logger), goal) {
		count++
		if err := fn(st); err != nil {
			return err
		}
		if n > 0 && count >= n {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Solutions returns up to n solution states of goal. If n <= 0, all
// solutions are returned, subject to Config.MaxSolutions.
func (r *Runner) Solutions(ctx context.Context, goal Goal, n int) ([]State, error) {
	out := []State{}
	err := r.each(ctx, "solutions", goal, n, func(s State) error {
		out = append(out, s)
		return nil
	})
	return out, err
}

// Count returns the number of solutions of goal, up to n (n <= 0 for no
// limit beyond Config.MaxSolutions).
func (r *Runner) Count(ctx context.Context, goal Goal, n int) (int, error) {
	count := 0
	err := r.each(ctx, "count", goal, n, func(State) error {
		count++
		return nil
	})
	return count, err
}

// RunEach evaluates independent goals concurrently, at most
// Config.Parallelism at a time, and returns each goal's solutions in the
// order of goals. Each goal is searched on its own goroutine with the usual
// single-threaded, deterministic order. The first error cancels the
// remaining searches.
func (r *Runner) RunEach(ctx context.Context, goals []Goal, n int) ([][]State, error) {
	out := make([][]State, len(goals))
	tasks := make([]parallel.Task, len(goals))
	for i, g := range goals {
		tasks[i] = func(ctx context.Context) error {
			states, err := r.Solutions(ctx, g, n)
			if err != nil {
				return fmt.Errorf("goal %d: %w", i, err)
			}
			out[i] = states
			return nil
		}
	}
	if err := r.pool.Run(ctx, tasks...); err != nil {
		return out, err
	}
	return out, nil
}

// Collect runs goalFunc through r and returns up to n reified values of its
// query variable, using the runner's reification depth.
func Collect[T any](ctx context.Context, r *Runner, n int, goalFunc func(q Value[T]) Goal) ([]T, error) {
	q := Unbound[T]()
	out := []T{}
	err := r.each(ctx, "collect", goalFunc(q), n, func(s State) error {
		t, err := Reify(s, q)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}
