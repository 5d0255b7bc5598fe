package work

import (
	"crypto/rand"
	"fmt"
)

type worker struct {
	id       string
	handlers map[string]Handler
	jobChan  <-chan JobParams
	stopChan chan struct{}
}

func newWorker(jobChan <-chan JobParams) *worker {
	return &worker{
		id:       makeIdentifier(),
		handlers: make(map[string]Handler),
		jobChan:  jobChan,
		stopChan: make(chan struct{}),
	}
}

func (w *worker) registerHandler(name string, handler Handler) error {
	if _, ok := w.handlers[name]; ok {
		return ErrDuplicateHandler
	}

	w.handlers[name] = handler

	return nil
}

func (w *worker) start() {
	go w.loop()
}

func (w *worker) stop() {
	w.stopChan <- struct{}{}
}

func (w *worker) loop() {
	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobChan:
			w.perform(job)
		}
	}
}

func (w *worker) perform(job JobParams) {
	handler, ok := w.handlers[job.Handler]
	if !ok {
		logg.Errorf("worker %v: no handler mapped for job %q", w.id, job.Name)
		return
	}

	defer func() {
		if err := recover(); err != nil {
			logg.Errorf("worker %v: job %q panicked: %v", w.id, job.Name, err)
		}
	}()

	if err := handler(job.Args); err != nil {
		logg.Errorf("worker %v: job %q failed: %v", w.id, job.Name, err)
	}
}

func makeIdentifier() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "-"
	}

	return fmt.Sprintf("%x", b)
}
