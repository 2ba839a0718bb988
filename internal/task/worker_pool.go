package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool runs a fixed number of goroutines that execute tasks read from
// a TaskQueueReader.
type WorkerPool struct {
	taskQueue   TaskQueueReader
	workerCount int
	taskTimeout time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	// errorHandler is called when a task fails or panics. If nil, errors are
	// only logged.
	errorHandler func(task Task, err error)

	// observer sees the outcome of every task, successful or not.
	observer func(taskType string, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// TaskTimeout bounds a single Execute call. Zero means 30 seconds.
	TaskTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		TaskTimeout: 30 * time.Second,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration.
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "worker_pool"))

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
	}
	timeout := config.TaskTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		taskTimeout: timeout,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler sets the callback for failed tasks. Call before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// SetObserver sets a callback run after every task. Call before Start.
func (p *WorkerPool) SetObserver(observer func(taskType string, err error)) {
	p.observer = observer
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", slog.Int("workers", p.workerCount))
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels running tasks and waits for every worker to return.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Drain waits until the queue is closed and emptied or ctx is done,
// then stops the pool.
func (p *WorkerPool) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("worker pool drain interrupted", slog.Any("error", ctx.Err()))
	}
	p.Stop()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	log := p.logger.With(slog.Int("worker_id", id))

	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-tasks:
			if !ok {
				log.Debug("task channel closed, worker exiting")
				return
			}
			p.run(log, t)
		}
	}
}

func (p *WorkerPool) run(log *slog.Logger, t Task) {
	log = log.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()))

	ctx, cancel := context.WithTimeout(p.ctx, p.taskTimeout)
	defer cancel()

	start := time.Now()
	err := p.execute(ctx, t)
	if p.observer != nil {
		p.observer(t.Type(), err)
	}
	if err != nil {
		log.Error("task execution failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)))
		if p.errorHandler != nil {
			p.errorHandler(t, err)
		}
		return
	}
	log.Debug("task completed", slog.Duration("duration", time.Since(start)))
}

// execute converts a panic inside the task into an error.
func (p *WorkerPool) execute(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return t.Execute(ctx)
}
