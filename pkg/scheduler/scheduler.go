// Package scheduler serializes outbound calls through a single FIFO queue
// with a minimum interval between the start of consecutive tasks.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/JaimeStill/quill/pkg/scheduler"

// ErrTaskPanic is returned to a caller whose task panicked.
var ErrTaskPanic = errors.New("scheduled task panicked")

// Task is a unit of work executed by the scheduler.
type Task func(ctx context.Context) error

// Config holds scheduler construction parameters.
// A nil Clock uses the wall clock; a nil Logger discards output.
type Config struct {
	Interval time.Duration
	Clock    Clock
	Logger   *slog.Logger
}

// Scheduler executes tasks one at a time in submission order. Each task
// starts no sooner than Interval after the previous task started.
// The drain loop starts lazily on Enqueue and exits when the queue empties.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	logger   *slog.Logger
	tracer   trace.Tracer

	mu        sync.Mutex
	queue     []*job
	draining  bool
	lastStart time.Time
}

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// New creates a Scheduler from cfg.
func New(cfg Config) *Scheduler {
	clock := cfg.Clock
	if clock == nil {
		clock = WallClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scheduler{
		interval: cfg.Interval,
		clock:    clock,
		logger:   logger.With("system", "scheduler"),
		tracer:   otel.Tracer(tracerName),
	}
}

// Interval returns the minimum spacing between task starts.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// QueueLength returns the number of tasks waiting to start.
func (s *Scheduler) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// EstimatedWait approximates how long a newly enqueued task waits: one
// interval per queued task. Task durations are not included.
func (s *Scheduler) EstimatedWait() time.Duration {
	return time.Duration(s.QueueLength()) * s.interval
}

// Enqueue submits task and blocks until it has executed, returning the
// task's error. A task error or panic is delivered only to its own caller;
// the queue continues draining. If ctx ends before the task starts, the
// task is skipped and ctx.Err() is returned.
func (s *Scheduler) Enqueue(ctx context.Context, task Task) error {
	j := &job{
		ctx:  ctx,
		task: task,
		done: make(chan error, 1),
	}

	s.mu.Lock()
	s.queue = append(s.queue, j)
	if !s.draining {
		s.draining = true
		go s.drain()
	}
	s.mu.Unlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn through s and returns its value.
func Do[T any](ctx context.Context, s *Scheduler, fn func(ctx context.Context) (T, error)) (T, error) {
	result := make(chan T, 1)

	err := s.Enqueue(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result <- v
		return nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return <-result, nil
}

func (s *Scheduler) drain() {
	for {
		j, wait, ok := s.next()
		if !ok {
			return
		}

		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}

		if wait > 0 {
			if err := s.clock.Sleep(j.ctx, wait); err != nil {
				j.done <- err
				continue
			}
		}

		s.mu.Lock()
		s.lastStart = s.clock.Now()
		s.mu.Unlock()

		j.done <- s.execute(j)
	}
}

func (s *Scheduler) next() (*job, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.draining = false
		return nil, 0, false
	}

	j := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]

	var wait time.Duration
	if !s.lastStart.IsZero() {
		wait = s.interval - s.clock.Now().Sub(s.lastStart)
	}

	return j, wait, true
}

func (s *Scheduler) execute(j *job) (err error) {
	ctx, span := s.tracer.Start(j.ctx, "scheduler.task")
	span.SetAttributes(attribute.Int("scheduler.queue_length", s.QueueLength()))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.WarnContext(ctx, "task failed", "error", err)
		}
	}()

	return j.task(ctx)
}
