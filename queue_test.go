package ftpc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T, s *fakeServer, size int) *Pool {
	t.Helper()
	pool := NewPool(s.addr(), "user", "secret", size)
	t.Cleanup(pool.Close)
	return pool
}

func TestPoolReusesConnections(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 2)

	c1, err := pool.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	pool.Put(c1)

	c2, err := pool.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if c2 != c1 {
		t.Error("idle connection was not reused")
	}
	pool.Put(c2)
}

func TestPoolReplacesStaleConnections(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)

	c1, err := pool.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	pool.Put(c1)

	// Simulate the server dropping the idle connection.
	c1.conn.Close()

	c2, err := pool.Get()
	if err != nil {
		t.Fatalf("Get after stale connection failed: %v", err)
	}
	if c2 == c1 {
		t.Fatal("stale connection was handed out again")
	}
	if err := c2.Noop(); err != nil {
		t.Errorf("replacement connection is not usable: %v", err)
	}
	pool.Put(c2)
}

func TestPoolClosed(t *testing.T) {
	s := newFakeServer(t)
	pool := NewPool(s.addr(), "user", "secret", 1)
	pool.Close()

	if _, err := pool.Get(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Get on closed pool: error = %v, want ErrPoolClosed", err)
	}
}

func TestPoolRejectsBadCredentials(t *testing.T) {
	s := newFakeServer(t)
	pool := NewPool(s.addr(), "user", "wrong", 1)
	defer pool.Close()

	_, err := pool.Get()
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProtocolError", err)
	}
	if pe.Reply.Code != 530 {
		t.Errorf("code = %d, want 530", pe.Reply.Code)
	}
}

func TestQueueRunsTasks(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 2)
	queue := NewQueue(pool, WithWorkers(2), WithRetryDelay(10*time.Millisecond))
	defer queue.Close()

	dir := t.TempDir()
	var tasks []*Task
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		localPath := filepath.Join(dir, name)
		if err := os.WriteFile(localPath, []byte("content of "+name), 0644); err != nil {
			t.Fatal(err)
		}
		tasks = append(tasks, queue.Upload(localPath, name, PriorityNormal))
	}
	queue.Wait()

	for _, task := range tasks {
		if task.Status() != TaskCompleted {
			t.Errorf("task %s status = %v, want completed (err: %v)",
				task.ID(), task.Status(), task.Err())
		}
	}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if got, _ := s.file(name); got != "content of "+name {
			t.Errorf("server file %s = %q", name, got)
		}
	}
}

func TestQueuePriorityOrder(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)
	queue := NewQueue(pool, WithWorkers(1))
	defer queue.Close()

	var mu sync.Mutex
	var order []string
	record := func(name string) TaskFunc {
		return func(*Client) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	// Hold the single worker so the remaining tasks pile up and are
	// picked by priority rather than submission order.
	gate := make(chan struct{})
	queue.Enqueue("gate", PriorityNormal, func(*Client) error {
		<-gate
		return nil
	})
	queue.Enqueue("low", PriorityLow, record("low"))
	queue.Enqueue("urgent", PriorityUrgent, record("urgent"))
	queue.Enqueue("normal", PriorityNormal, record("normal"))
	close(gate)
	queue.Wait()

	want := []string{"urgent", "normal", "low"}
	if len(order) != len(want) {
		t.Fatalf("ran %d tasks, want %d: %v", len(order), len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("execution order = %v, want %v", order, want)
		}
	}
}

func TestQueueRetriesFailedTasks(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)
	queue := NewQueue(pool, WithWorkers(1), WithMaxRetries(3), WithRetryDelay(5*time.Millisecond))
	defer queue.Close()

	var mu sync.Mutex
	attempts := 0
	task := queue.Enqueue("flaky", PriorityNormal, func(*Client) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient failure")
		}
		return nil
	})

	if err := task.Wait(); err != nil {
		t.Fatalf("task failed: %v", err)
	}
	if task.Status() != TaskCompleted {
		t.Errorf("status = %v, want completed", task.Status())
	}
	if task.Retries() != 2 {
		t.Errorf("retries = %d, want 2", task.Retries())
	}
}

func TestQueueExhaustsRetries(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)
	queue := NewQueue(pool, WithWorkers(1), WithMaxRetries(2), WithRetryDelay(5*time.Millisecond))
	defer queue.Close()

	wantErr := errors.New("disk full")
	task := queue.Enqueue("doomed", PriorityNormal, func(*Client) error {
		return wantErr
	})

	if err := task.Wait(); !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if task.Status() != TaskFailed {
		t.Errorf("status = %v, want failed", task.Status())
	}
	if task.Retries() != 2 {
		t.Errorf("retries = %d, want 2", task.Retries())
	}
}

func TestQueueCancel(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)
	queue := NewQueue(pool, WithWorkers(1))
	defer queue.Close()

	gate := make(chan struct{})
	running := queue.Enqueue("gate", PriorityNormal, func(*Client) error {
		<-gate
		return nil
	})

	var ran bool
	victim := queue.Enqueue("victim", PriorityNormal, func(*Client) error {
		ran = true
		return nil
	})

	if !queue.Cancel(victim) {
		t.Fatal("Cancel of a pending task returned false")
	}
	close(gate)
	queue.Wait()

	if victim.Status() != TaskCanceled {
		t.Errorf("status = %v, want canceled", victim.Status())
	}
	if ran {
		t.Error("canceled task still ran")
	}
	if queue.Cancel(running) {
		t.Error("Cancel of a finished task returned true")
	}
}

func TestQueueCloseCancelsPending(t *testing.T) {
	s := newFakeServer(t)
	pool := newTestPool(t, s, 1)
	queue := NewQueue(pool, WithWorkers(1))

	gate := make(chan struct{})
	queue.Enqueue("gate", PriorityNormal, func(*Client) error {
		<-gate
		return nil
	})
	pending := queue.Enqueue("pending", PriorityLow, func(*Client) error {
		return nil
	})

	done := make(chan struct{})
	go func() {
		queue.Close()
		close(done)
	}()

	// Close cancels queued tasks before waiting for the workers, so
	// the pending task finishes even while the gate task still runs.
	select {
	case <-pending.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pending task was not canceled by Close")
	}
	close(gate)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	if pending.Status() != TaskCanceled {
		t.Errorf("pending task status = %v, want canceled", pending.Status())
	}

	canceled := queue.Enqueue("late", PriorityNormal, func(*Client) error { return nil })
	if canceled.Status() != TaskCanceled {
		t.Errorf("Enqueue on closed queue: status = %v, want canceled", canceled.Status())
	}
}
