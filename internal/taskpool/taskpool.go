// Package taskpool runs blocking work on a fixed set of workers so callers
// never spawn a goroutine per request.
package taskpool

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("task pool closed")

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

type Task func(ctx context.Context)

// Pool executes submitted tasks on a bounded number of workers.
type Pool struct {
	tasks chan Task
	log   *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	baseCtx context.Context
	cancel  context.CancelFunc
}

func New(log *zap.Logger) *Pool {
	return NewWithSize(log, defaultWorkers, defaultQueueSize)
}

func NewWithSize(log *zap.Logger, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:   make(chan Task, queueSize),
		log:     log.Named("taskpool"),
		baseCtx: ctx,
		cancel:  cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", zap.Any("panic", r))
		}
	}()
	task(p.baseCtx)
}

// Submit enqueues a task. It blocks while the queue is full and fails once
// the pool is closed.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	// the send stays under the lock so Close cannot close the channel
	// between the closed check and the enqueue
	p.tasks <- task
	return nil
}

// Close stops intake, waits for queued tasks to drain, then cancels the
// base context handed to tasks.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}

func registerHooks(lc fx.Lifecycle, pool *Pool) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
}

var Module = fx.Module("taskpool",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
