package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ofisi/requestflow/internal/domain/event"
	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func newEvent() *event.Event {
	return event.New(event.TypeRequestSubmitted, workflow.DomainVehicle, 1, "user-1", nil)
}

func TestSubscribe(t *testing.T) {
	t.Run("dispatches to subscribed handler", func(t *testing.T) {
		d := New(nil)
		called := false

		d.Subscribe(event.TypeRequestSubmitted, "test-handler", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent()); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if !called {
			t.Error("expected handler to be called")
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := New(logger)

		d.Subscribe(event.TypeRequestSubmitted, "test-handler", func(ctx context.Context, evt *event.Event) error {
			return nil
		})

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})

	t.Run("ignores handlers for other event types", func(t *testing.T) {
		d := New(nil)
		called := false

		d.Subscribe(event.TypeRequestApproved, "other-handler", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent()); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if called {
			t.Error("expected handler not to be called for a different event type")
		}
	})
}

func TestDispatch(t *testing.T) {
	t.Run("runs handlers in subscription order", func(t *testing.T) {
		d := New(nil)
		order := []int{}

		d.Subscribe(event.TypeRequestSubmitted, "first", func(ctx context.Context, evt *event.Event) error {
			order = append(order, 1)
			return nil
		})
		d.Subscribe(event.TypeRequestSubmitted, "second", func(ctx context.Context, evt *event.Event) error {
			order = append(order, 2)
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent()); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("expected handlers to run in order [1, 2], got %v", order)
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		logger := &mockLogger{}
		d := New(logger)
		expectedErr := errors.New("handler error")
		called := false

		d.Subscribe(event.TypeRequestSubmitted, "failing", func(ctx context.Context, evt *event.Event) error {
			return expectedErr
		})
		d.Subscribe(event.TypeRequestSubmitted, "skipped", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		err := d.Dispatch(context.Background(), newEvent())
		if !errors.Is(err, expectedErr) {
			t.Fatalf("expected error to wrap %v, got %v", expectedErr, err)
		}
		if called {
			t.Error("expected second handler not to be called after first error")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected handler error to be logged")
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		d := New(&mockLogger{})

		d.Subscribe(event.TypeRequestSubmitted, "panicky", func(ctx context.Context, evt *event.Event) error {
			panic("test panic")
		})

		if err := d.Dispatch(context.Background(), newEvent()); err == nil {
			t.Fatal("expected error from panic recovery")
		}
	})

	t.Run("returns error when closed", func(t *testing.T) {
		d := New(nil)
		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		if err := d.Dispatch(context.Background(), newEvent()); err == nil {
			t.Fatal("expected error when dispatching to closed dispatcher")
		}
	})
}

func TestDispatchAsync(t *testing.T) {
	t.Run("completes handlers before Close returns", func(t *testing.T) {
		d := New(nil)
		var called atomic.Int32

		d.Subscribe(event.TypeRequestSubmitted, "slow", func(ctx context.Context, evt *event.Event) error {
			time.Sleep(10 * time.Millisecond)
			called.Add(1)
			return nil
		})

		d.DispatchAsync(context.Background(), newEvent())

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if called.Load() != 1 {
			t.Errorf("expected 1 handler call, got %d", called.Load())
		}
	})

	t.Run("logs async handler errors without blocking", func(t *testing.T) {
		logger := &mockLogger{}
		d := New(logger)
		var called atomic.Int32

		d.Subscribe(event.TypeRequestSubmitted, "failing", func(ctx context.Context, evt *event.Event) error {
			return errors.New("handler error")
		})
		d.Subscribe(event.TypeRequestSubmitted, "succeeding", func(ctx context.Context, evt *event.Event) error {
			called.Add(1)
			return nil
		})

		d.DispatchAsync(context.Background(), newEvent())

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if called.Load() != 1 {
			t.Errorf("expected second handler to run despite first error, got %d calls", called.Load())
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected async error to be logged")
		}
	})

	t.Run("drops events after close", func(t *testing.T) {
		logger := &mockLogger{}
		d := New(logger)
		var called atomic.Int32

		d.Subscribe(event.TypeRequestSubmitted, "handler", func(ctx context.Context, evt *event.Event) error {
			called.Add(1)
			return nil
		})

		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		d.DispatchAsync(context.Background(), newEvent())
		time.Sleep(50 * time.Millisecond)

		if called.Load() > 0 {
			t.Error("expected no handler calls after close")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected dropped event to be logged")
		}
	})
}

func TestClose(t *testing.T) {
	t.Run("returns error on double close", func(t *testing.T) {
		d := New(nil)

		if err := d.Close(); err != nil {
			t.Fatalf("first close failed: %v", err)
		}
		if err := d.Close(); err == nil {
			t.Fatal("expected error on second close")
		}
	})
}

func TestConcurrentDispatch(t *testing.T) {
	d := New(nil)
	var called atomic.Int32

	d.Subscribe(event.TypeRequestSubmitted, "counter", func(ctx context.Context, evt *event.Event) error {
		called.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Dispatch(context.Background(), newEvent()); err != nil {
				t.Errorf("dispatch failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if called.Load() != 10 {
		t.Errorf("expected 10 handler calls, got %d", called.Load())
	}
}
