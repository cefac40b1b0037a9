package renderer

import (
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile Tile
	job  *passJob
}

// TileResult reports a finished tile
type TileResult struct {
	TileID int
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	quit        chan struct{}
	numWorkers  int
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	numWorkers = max(numWorkers, 1)
	return &WorkerPool{
		taskQueue:   make(chan TileTask, numWorkers*4),
		resultQueue: make(chan TileResult, numWorkers*4),
		quit:        make(chan struct{}),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.quit)
		wp.wg.Wait()
		close(wp.resultQueue)
	})
}

// SubmitTask submits a tile task to the worker pool.
// It returns false once the pool has been stopped.
func (wp *WorkerPool) SubmitTask(task TileTask) bool {
	select {
	case <-wp.quit:
		return false
	default:
	}
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.quit:
		return false
	}
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for {
		select {
		case task := <-wp.taskQueue:
			task.job.renderTile(task.Tile)
			select {
			case wp.resultQueue <- TileResult{TileID: task.Tile.ID}:
			case <-wp.quit:
				return
			}
		case <-wp.quit:
			return
		}
	}
}

// runPass fans the tiles out over the pool and waits for all of them.
// Submission runs concurrently so the bounded queues cannot deadlock.
// It reports false if the pool stopped before every tile finished.
func (wp *WorkerPool) runPass(job *passJob, tiles []Tile) bool {
	go func() {
		for _, tile := range tiles {
			if !wp.SubmitTask(TileTask{Tile: tile, job: job}) {
				return
			}
		}
	}()
	for range tiles {
		if _, ok := wp.GetResult(); !ok {
			return false
		}
	}
	return true
}
