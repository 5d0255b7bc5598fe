package work

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/techedushop/contactus/server/logger"
)

const DEFAULT_QUEUE_SIZE = 64

var (
	ErrDuplicateHandler = errors.New("handler with provided name already mapped")
	ErrQueueFull        = errors.New("job queue is full")

	logg = logger.NewLogger()
)

// Handler is a job function executed by a worker. A returned error is
// logged; the job is not retried.
type Handler func(map[string]interface{}) error

type JobParams struct {
	Name    string
	Handler string
	Args    map[string]interface{}
}

// WorkerPool runs enqueued jobs on background goroutines, detached from
// the request path that enqueued them. Jobs are held in memory only -
// anything still queued when the process exits is lost, which is fine
// for fire-and-forget work like notification emails.
type WorkerPool struct {
	handlers map[string]Handler
	jobChan  chan JobParams
	workers  []*worker
	started  bool
	mu       sync.Mutex
}

func NewWorkerPool(concurrency int) *WorkerPool {
	wp := WorkerPool{
		handlers: make(map[string]Handler),
		jobChan:  make(chan JobParams, DEFAULT_QUEUE_SIZE),
	}

	for i := 0; i < concurrency; i++ {
		wp.workers = append(wp.workers, newWorker(wp.jobChan))
	}

	return &wp
}

// RegisterHandler binds a name to a job handler for all workers in pool
func (wp *WorkerPool) RegisterHandler(name string, handler Handler) error {
	if _, ok := wp.handlers[name]; ok {
		return ErrDuplicateHandler
	}

	wp.handlers[name] = handler

	for _, worker := range wp.workers {
		err := worker.registerHandler(name, handler)
		if err != nil && !errors.Is(err, ErrDuplicateHandler) {
			logg.Panic(err)
		}
	}

	return nil
}

// Enqueue adds a job to the queue(to be executed). It never blocks the
// caller - if the queue is full, the job is dropped & an error returned.
func (wp *WorkerPool) Enqueue(job JobParams) error {
	if strings.TrimSpace(job.Name) == "" || strings.TrimSpace(job.Handler) == "" {
		return fmt.Errorf("both a name & handler is required for a job")
	}

	if _, ok := wp.handlers[job.Handler]; !ok {
		return fmt.Errorf("no handler registered for %q", job.Handler)
	}

	select {
	case wp.jobChan <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start starts all workers in pool i.e the workers can start processing jobs
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.started {
		return
	}
	wp.started = true

	for _, worker := range wp.workers {
		worker.start()
	}
}

// Stop stops all workers in pool i.e jobs will stop being processed
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.started {
		return
	}

	wg := sync.WaitGroup{}
	for _, w := range wp.workers {
		wg.Add(1)
		go func(w *worker) {
			w.stop()
			wg.Done()
		}(w)
	}
	wg.Wait()
	wp.started = false
}
