package worker

import (
	"context"
	"log"
	"sync"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type WorkerPool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	mu        sync.Mutex // guards closed and the queue close
	closed    bool
	baseCtx   context.Context
	cancel    context.CancelFunc
}

func NewWorkerPool(size int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	wp := &WorkerPool{
		taskQueue: make(chan Task, 1000), // Buffer for 1000 pending tasks
		baseCtx:   ctx,
		cancel:    cancel,
	}

	// Start the workers
	for i := 0; i < size; i++ {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for task := range wp.taskQueue {
		if err := task(wp.baseCtx); err != nil { // run task
			log.Printf("Worker task failed: %v", err)
		}
	}
}

func (wp *WorkerPool) Submit(t Task) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		log.Println("Warning: task submitted during shutdown, dropping.")
		return
	}
	select {
	case wp.taskQueue <- t: // send task to worker pool
	default:
		log.Println("Task queue full, dropping task!")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskQueue) // Stop accepting new tasks
	wp.mu.Unlock()

	wp.wg.Wait() // Wait for all active workers to finish tasks
	wp.cancel()
}
