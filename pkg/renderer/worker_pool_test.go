package renderer

import (
	"errors"
	"image"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	var calls atomic.Int32
	pool := NewWorkerPool(4, 20, func(task TileTask) TileResult {
		calls.Add(1)
		return TileResult{TaskID: task.TaskID, Rays: task.Tile.Bounds.Dx() * task.Tile.Bounds.Dy()}
	})
	if pool.NumWorkers() != 4 {
		t.Errorf("Expected 4 workers, got %d", pool.NumWorkers())
	}

	pool.Start()
	for i := 0; i < 20; i++ {
		pool.SubmitTask(TileTask{Tile: NewTile(i, image.Rect(0, 0, 2, 3), nil), TaskID: i})
	}

	seen := make(map[int]bool)
	rays := 0
	for i := 0; i < 20; i++ {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		seen[result.TaskID] = true
		rays += result.Rays
	}
	pool.Stop()

	if len(seen) != 20 || calls.Load() != 20 {
		t.Errorf("Expected 20 distinct results, got %d (calls %d)", len(seen), calls.Load())
	}
	if rays != 120 {
		t.Errorf("Expected 120 rays, got %d", rays)
	}
	if _, ok := pool.GetResult(); ok {
		t.Error("Expected the result queue to be closed after Stop")
	}
}

func TestWorkerPool_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	pool := NewWorkerPool(0, 1, func(task TileTask) TileResult {
		return TileResult{TaskID: task.TaskID, Error: boom}
	})
	if pool.NumWorkers() != 1 {
		t.Errorf("Expected at least one worker, got %d", pool.NumWorkers())
	}

	pool.Start()
	pool.SubmitTask(TileTask{TaskID: 7})
	result, _ := pool.GetResult()
	pool.Stop()

	if !errors.Is(result.Error, boom) || result.TaskID != 7 {
		t.Errorf("Unexpected result %+v", result)
	}
}
