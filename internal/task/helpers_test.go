package task

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/platform/logger"
)

func setupTestLogger() *slog.Logger {
	log, _ := logger.NewBufferLogger()
	return log
}

// mockTask runs execFn and counts executions.
type mockTask struct {
	id     uuid.UUID
	execFn func(ctx context.Context) error
	runs   atomic.Int32
}

func newMockTask(execFn func(ctx context.Context) error) *mockTask {
	return &mockTask{id: uuid.New(), execFn: execFn}
}

func (m *mockTask) ID() uuid.UUID { return m.id }
func (m *mockTask) Type() string  { return "mock" }

func (m *mockTask) Execute(ctx context.Context) error {
	m.runs.Add(1)
	if m.execFn == nil {
		return nil
	}
	return m.execFn(ctx)
}
