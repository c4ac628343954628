// Package worker runs background tasks on a fixed set of goroutines fed by a
// bounded queue. Submission never blocks: a full queue rejects the task.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
	ErrQueueFull  = errors.New("worker pool queue is full")
)

// Task receives a context that is cancelled when the task times out or the
// pool gives up waiting during Shutdown.
type Task func(ctx context.Context)

type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type Config struct {
	Name        string
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration // zero means no per-task deadline
}

type job struct {
	name string
	run  Task
}

type Pool struct {
	cfg    Config
	logger Logger

	tasks  chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc

	inFlight  atomic.Int64
	completed atomic.Int64
}

// NewPool starts the workers immediately.
func NewPool(cfg Config, logger Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.Name == "" {
		cfg.Name = "worker"
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		cfg:     cfg,
		logger:  logger,
		tasks:   make(chan job, cfg.QueueSize),
		baseCtx: ctx,
		cancel:  cancel,
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.work()
	}

	return p
}

// Submit enqueues task. It returns ErrQueueFull or ErrPoolClosed instead of blocking.
func (p *Pool) Submit(name string, task Task) error {
	if task == nil {
		return errors.New("worker: nil task")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- job{name: name, run: task}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending is the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	return len(p.tasks)
}

func (p *Pool) InFlight() int64 {
	return p.inFlight.Load()
}

func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

func (p *Pool) Accepting() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Shutdown stops accepting work and waits for queued and running tasks.
// When ctx ends first, running tasks see their context cancelled and
// Shutdown returns ctx.Err() without waiting further.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log().Info("Worker pool drained", "pool", p.cfg.Name, "completed", p.completed.Load())
		return nil
	case <-ctx.Done():
		p.cancel()
		p.log().Error("Worker pool shutdown timed out", "pool", p.cfg.Name, "pending", len(p.tasks), "in_flight", p.inFlight.Load())
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for j := range p.tasks {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}()

	ctx, cancel := p.baseCtx, context.CancelFunc(func() {})
	if p.cfg.TaskTimeout > 0 {
		ctx, cancel = context.WithTimeout(p.baseCtx, p.cfg.TaskTimeout)
	}
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.log().Error("Background task panicked", "pool", p.cfg.Name, "task", j.name, "panic", r)
		}
	}()

	j.run(ctx)
}

func (p *Pool) log() Logger {
	if p.logger == nil {
		return nopLogger{}
	}
	return p.logger
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
