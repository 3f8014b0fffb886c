package ftpc

import (
	"container/heap"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// TaskPriority orders queued tasks. Higher priorities run first; tasks
// of equal priority run in the order they were added.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

// String returns the priority name, e.g. "urgent".
func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// TaskStatus is the life-cycle state of a queued task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskRetrying
	TaskCompleted
	TaskFailed
	TaskCanceled
)

// String returns the status name, e.g. "completed".
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskRetrying:
		return "retrying"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// terminal reports whether a task in this status will never run again.
func (s TaskStatus) terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCanceled
}

// TaskFunc is the work a queued task performs with a pooled client.
// Results are delivered by capturing variables in the closure.
type TaskFunc func(client *Client) error

// Task tracks one queued operation through the queue.
type Task struct {
	id       string
	name     string
	priority TaskPriority
	fn       TaskFunc
	seq      int

	mu      sync.Mutex
	status  TaskStatus
	err     error
	retries int

	done chan struct{}
}

// ID returns the queue-assigned task identifier.
func (t *Task) ID() string { return t.id }

// Status returns the current life-cycle state.
func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err returns the error of the most recent attempt, or nil.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Retries returns how many times the task has been retried.
func (t *Task) Retries() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retries
}

// Done returns a channel that is closed once the task completes, fails
// for good, or is canceled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its final error.
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}

// taskHeap orders tasks by priority, FIFO within a priority.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Queue runs FTP operations concurrently over a connection pool.
// Tasks are picked by priority and failed tasks are retried after a
// delay until the retry budget runs out.
//
// Example:
//
//	pool := ftpc.NewPool("ftp.example.com:21", "user", "pass", 3)
//	defer pool.Close()
//
//	queue := ftpc.NewQueue(pool, ftpc.WithWorkers(3))
//	defer queue.Close()
//
//	task := queue.Upload("report.pdf", "upload/report.pdf", ftpc.PriorityHigh)
//	if err := task.Wait(); err != nil {
//	    log.Fatal(err)
//	}
type Queue struct {
	pool        *Pool
	logger      *slog.Logger
	workerCount int
	maxRetries  int
	retryDelay  time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending taskHeap
	seq     int
	nextID  int
	closed  bool

	workers sync.WaitGroup
	tasks   sync.WaitGroup
}

// QueueOption is a functional option for configuring a Queue.
type QueueOption func(*Queue)

// WithWorkers sets how many tasks may run concurrently. The default
// is 3; the connection pool should be at least this large.
func WithWorkers(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.workerCount = n
		}
	}
}

// WithMaxRetries sets how many times a failed task is retried before
// it is reported as failed. The default is 3; zero disables retries.
func WithMaxRetries(n int) QueueOption {
	return func(q *Queue) {
		if n >= 0 {
			q.maxRetries = n
		}
	}
}

// WithRetryDelay sets the pause before a failed task is requeued.
// The default is 5 seconds.
func WithRetryDelay(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.retryDelay = d
		}
	}
}

// WithQueueLogger enables debug logging of task scheduling.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// NewQueue creates a queue backed by the given pool and starts its
// workers.
func NewQueue(pool *Pool, options ...QueueOption) *Queue {
	q := &Queue{
		pool:        pool,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		workerCount: 3,
		maxRetries:  3,
		retryDelay:  5 * time.Second,
	}
	q.cond = sync.NewCond(&q.mu)

	for _, opt := range options {
		opt(q)
	}

	for i := 0; i < q.workerCount; i++ {
		q.workers.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue adds a task to the queue and returns it for status
// inspection. The name is used only for logging. Enqueue on a closed
// queue returns the task already canceled.
func (q *Queue) Enqueue(name string, priority TaskPriority, fn TaskFunc) *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	t := &Task{
		id:       fmt.Sprintf("task-%d", q.nextID),
		name:     name,
		priority: priority,
		fn:       fn,
		status:   TaskPending,
		done:     make(chan struct{}),
	}

	if q.closed {
		t.status = TaskCanceled
		close(t.done)
		return t
	}

	q.tasks.Add(1)
	q.seq++
	t.seq = q.seq
	heap.Push(&q.pending, t)
	q.cond.Signal()

	q.logger.Debug("task queued", "id", t.id, "name", name, "priority", priority.String())
	return t
}

// Cancel stops a task that has not started running yet. It reports
// whether the task was canceled; running or finished tasks cannot be
// canceled.
func (q *Queue) Cancel(t *Task) bool {
	return q.finish(t, TaskCanceled, nil, TaskPending, TaskRetrying)
}

// Wait blocks until every enqueued task has completed, failed for
// good, or been canceled.
func (q *Queue) Wait() { q.tasks.Wait() }

// Close cancels pending tasks and stops the workers once the tasks
// that are already running have finished.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := q.pending
	q.pending = nil
	q.cond.Broadcast()
	q.mu.Unlock()

	for _, t := range pending {
		q.finish(t, TaskCanceled, nil, TaskPending, TaskRetrying)
	}
	q.workers.Wait()
}

func (q *Queue) worker() {
	defer q.workers.Done()
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		t := heap.Pop(&q.pending).(*Task)
		q.mu.Unlock()

		q.run(t)
	}
}

func (q *Queue) run(t *Task) {
	t.mu.Lock()
	if t.status.terminal() {
		// Canceled while waiting in the heap.
		t.mu.Unlock()
		return
	}
	t.status = TaskRunning
	t.mu.Unlock()

	q.logger.Debug("task started", "id", t.id, "name", t.name)

	client, err := q.pool.Get()
	if err == nil {
		err = t.fn(client)
		q.pool.Put(client)
	}

	if err == nil {
		q.logger.Debug("task completed", "id", t.id, "name", t.name)
		q.finish(t, TaskCompleted, nil, TaskRunning)
		return
	}

	t.mu.Lock()
	t.err = err
	canRetry := t.retries < q.maxRetries
	if canRetry {
		t.status = TaskRetrying
		t.retries++
	}
	attempt := t.retries
	t.mu.Unlock()

	if canRetry {
		q.logger.Warn("task failed, retrying", "id", t.id, "name", t.name, "attempt", attempt, "error", err)
		time.AfterFunc(q.retryDelay, func() { q.requeue(t) })
		return
	}

	q.logger.Error("task failed", "id", t.id, "name", t.name, "error", err)
	q.finish(t, TaskFailed, err, TaskRunning)
}

// requeue puts a retrying task back on the heap after its delay.
func (q *Queue) requeue(t *Task) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.finish(t, TaskCanceled, nil, TaskRetrying)
		return
	}
	q.seq++
	t.seq = q.seq
	heap.Push(&q.pending, t)
	q.cond.Signal()
	q.mu.Unlock()
}

// finish moves a task to a terminal status if its current status is
// one of from, and releases its waiters. A nil err keeps the error of
// the last attempt.
func (q *Queue) finish(t *Task, status TaskStatus, err error, from ...TaskStatus) bool {
	t.mu.Lock()
	var ok bool
	for _, s := range from {
		if t.status == s {
			ok = true
			break
		}
	}
	if !ok {
		t.mu.Unlock()
		return false
	}
	t.status = status
	if err != nil {
		t.err = err
	}
	t.mu.Unlock()

	close(t.done)
	q.tasks.Done()
	return true
}

// Upload queues an upload of a local file to a remote path.
func (q *Queue) Upload(localPath, remotePath string, priority TaskPriority) *Task {
	return q.Enqueue("upload", priority, func(client *Client) error {
		return client.StoreFile(localPath, remotePath)
	})
}

// Download queues a download of a remote file to a local path.
func (q *Queue) Download(remotePath, localPath string, priority TaskPriority) *Task {
	return q.Enqueue("download", priority, func(client *Client) error {
		return client.RetrieveFile(remotePath, localPath)
	})
}

// Delete queues the deletion of a remote file.
func (q *Queue) Delete(remotePath string, priority TaskPriority) *Task {
	return q.Enqueue("delete", priority, func(client *Client) error {
		return client.Delete(remotePath)
	})
}

// Rename queues a rename of a remote file or directory.
func (q *Queue) Rename(from, to string, priority TaskPriority) *Task {
	return q.Enqueue("rename", priority, func(client *Client) error {
		return client.Rename(from, to)
	})
}

// MakeDir queues the creation of a remote directory.
func (q *Queue) MakeDir(remotePath string, priority TaskPriority) *Task {
	return q.Enqueue("mkdir", priority, func(client *Client) error {
		return client.MakeDir(remotePath)
	})
}

// RemoveDir queues the removal of a remote directory.
func (q *Queue) RemoveDir(remotePath string, priority TaskPriority) *Task {
	return q.Enqueue("rmdir", priority, func(client *Client) error {
		return client.RemoveDir(remotePath)
	})
}
