package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(10, logger)

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 5}, logger)
	assert.Equal(t, 5, pool.workerCount)
	assert.Equal(t, 30*time.Second, pool.taskTimeout)
	assert.Nil(t, pool.errorHandler)

	for _, count := range []int{0, -5} {
		pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: count}, logger)
		assert.Equal(t, 1, pool.workerCount)
	}
}

func TestWorkerPool_ProcessTask(t *testing.T) {
	tests := []struct {
		name    string
		execFn  func(ctx context.Context) error
		wantErr string
	}{
		{
			name:   "success",
			execFn: func(context.Context) error { return nil },
		},
		{
			name:    "error",
			execFn:  func(context.Context) error { return errors.New("smtp unavailable") },
			wantErr: "smtp unavailable",
		},
		{
			name:    "panic",
			execFn:  func(context.Context) error { panic("boom") },
			wantErr: "task panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewTaskQueue(1, setupTestLogger())
			pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())

			errs := make(chan error, 1)
			pool.SetErrorHandler(func(_ Task, err error) { errs <- err })
			pool.Start()
			defer pool.Stop()

			done := make(chan struct{})
			task := newMockTask(func(ctx context.Context) error {
				defer close(done)
				return tt.execFn(ctx)
			})
			require.NoError(t, queue.Enqueue(task))

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for task")
			}

			if tt.wantErr == "" {
				select {
				case err := <-errs:
					t.Fatalf("unexpected error: %v", err)
				case <-time.After(50 * time.Millisecond):
				}
				return
			}
			select {
			case err := <-errs:
				assert.EqualError(t, err, tt.wantErr)
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for error handler")
			}
		})
	}
}

func TestWorkerPool_TaskTimeout(t *testing.T) {
	queue := NewTaskQueue(1, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1, TaskTimeout: 20 * time.Millisecond}, nil)

	errs := make(chan error, 1)
	pool.SetErrorHandler(func(_ Task, err error) { errs <- err })
	pool.Start()
	defer pool.Stop()

	require.NoError(t, queue.Enqueue(newMockTask(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task was not cancelled")
	}
}

func TestWorkerPool_Drain(t *testing.T) {
	queue := NewTaskQueue(10, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, nil)

	tasks := make([]*mockTask, 5)
	for i := range tasks {
		tasks[i] = newMockTask(nil)
		require.NoError(t, queue.Enqueue(tasks[i]))
	}

	pool.Start()
	queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Drain(ctx)

	for _, task := range tasks {
		assert.Equal(t, int32(1), task.runs.Load())
	}
}

func TestWorkerPool_Observer(t *testing.T) {
	queue := NewTaskQueue(2, nil)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, nil)

	type outcome struct {
		taskType string
		err      error
	}
	seen := make(chan outcome, 2)
	pool.SetObserver(func(taskType string, err error) { seen <- outcome{taskType, err} })
	pool.Start()
	defer pool.Stop()

	require.NoError(t, queue.Enqueue(newMockTask(nil)))
	require.NoError(t, queue.Enqueue(newMockTask(func(context.Context) error { return errors.New("bounced") })))

	for _, wantErr := range []bool{false, true} {
		select {
		case got := <-seen:
			assert.Equal(t, "mock", got.taskType)
			assert.Equal(t, wantErr, got.err != nil)
		case <-time.After(time.Second):
			t.Fatal("observer not called")
		}
	}
}
