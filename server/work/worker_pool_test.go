package work

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueAndPerform(t *testing.T) {
	workerPool := NewWorkerPool(2)

	var mu sync.Mutex
	performed := []string{}
	done := make(chan struct{})

	err := workerPool.RegisterHandler("record", func(args map[string]interface{}) error {
		mu.Lock()
		performed = append(performed, args["value"].(string))
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	assert.Nil(t, err)

	workerPool.Start()
	defer workerPool.Stop()

	err = workerPool.Enqueue(JobParams{
		Name:    "record hello",
		Handler: "record",
		Args:    map[string]interface{}{"value": "hello"},
	})
	assert.Nil(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not performed in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"hello"}, performed)
}

func TestRegisterHandlerRejectsDuplicates(t *testing.T) {
	workerPool := NewWorkerPool(1)

	noop := func(map[string]interface{}) error { return nil }

	assert.Nil(t, workerPool.RegisterHandler("noop", noop))
	assert.ErrorIs(t, workerPool.RegisterHandler("noop", noop), ErrDuplicateHandler)
}

func TestEnqueueRequiresNameAndHandler(t *testing.T) {
	workerPool := NewWorkerPool(1)

	err := workerPool.Enqueue(JobParams{Name: "", Handler: "missing"})
	assert.NotNil(t, err)

	err = workerPool.Enqueue(JobParams{Name: "some job", Handler: " "})
	assert.NotNil(t, err)
}

func TestEnqueueUnknownHandler(t *testing.T) {
	workerPool := NewWorkerPool(1)

	err := workerPool.Enqueue(JobParams{Name: "some job", Handler: "never registered"})
	assert.NotNil(t, err)
}

func TestEnqueueNeverBlocksWhenQueueIsFull(t *testing.T) {
	workerPool := NewWorkerPool(1) // never started, so jobs pile up

	noop := func(map[string]interface{}) error { return nil }
	assert.Nil(t, workerPool.RegisterHandler("noop", noop))

	for i := 0; i < DEFAULT_QUEUE_SIZE; i++ {
		assert.Nil(t, workerPool.Enqueue(JobParams{Name: "fill", Handler: "noop"}))
	}

	err := workerPool.Enqueue(JobParams{Name: "overflow", Handler: "noop"})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestFailingJobDoesNotStopWorker(t *testing.T) {
	workerPool := NewWorkerPool(1)

	done := make(chan struct{})

	assert.Nil(t, workerPool.RegisterHandler("fail", func(map[string]interface{}) error {
		panic("boom")
	}))
	assert.Nil(t, workerPool.RegisterHandler("ok", func(map[string]interface{}) error {
		close(done)
		return nil
	}))

	workerPool.Start()
	defer workerPool.Stop()

	assert.Nil(t, workerPool.Enqueue(JobParams{Name: "fail once", Handler: "fail"}))
	assert.Nil(t, workerPool.Enqueue(JobParams{Name: "still works", Handler: "ok"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
}
