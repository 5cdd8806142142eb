package shopsync

import (
	"errors"
	"testing"
)

func TestChunkSlice_SplitsInOriginalOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	chunks := chunkSlice(items, 3)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 3 || len(chunks[1]) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("unexpected chunk sizes: %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[2][0] != 7 {
		t.Fatalf("expected last chunk to hold the trailing item, got %d", chunks[2][0])
	}
}

func TestChunkSlice_EmptyInput(t *testing.T) {
	if chunks := chunkSlice([]int{}, 10); chunks != nil {
		t.Fatalf("expected nil chunks for empty input, got %v", chunks)
	}
}

func TestBatchProcess_ReportsIndexAndTotal(t *testing.T) {
	items := make([]int, 120)
	var indexes []int
	var sizes []int

	err := batchProcess(items, 50, func(batch []int, index, total int) error {
		if total != 3 {
			t.Fatalf("expected total 3, got %d", total)
		}
		indexes = append(indexes, index)
		sizes = append(sizes, len(batch))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(indexes) != 3 || indexes[0] != 0 || indexes[1] != 1 || indexes[2] != 2 {
		t.Fatalf("unexpected batch indexes: %v", indexes)
	}
	if sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 20 {
		t.Fatalf("unexpected batch sizes: %v", sizes)
	}
}

func TestBatchProcess_FirstErrorAbortsRemainingBatches(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := batchProcess(make([]int, 100), 10, func(batch []int, index, total int) error {
		calls++
		if index == 2 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected processing to stop after the failing batch, got %d calls", calls)
	}
}

func TestBatchProcess_EmptyInputIsNoop(t *testing.T) {
	err := batchProcess(nil, 50, func(batch []int, index, total int) error {
		t.Fatal("processor must not be called for empty input")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
