// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

// chunkSlice splits items into fixed-size slices in original order. The last
// chunk may be shorter. Chunks share backing storage with the input.
func chunkSlice[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// batchProcess applies fn to successive fixed-size chunks of items, strictly
// sequentially: one batch's writes complete before the next begins, which
// caps how much work a single transaction segment holds open. The first
// error aborts remaining batches.
func batchProcess[T any](items []T, batchSize int, fn func(batch []T, index, total int) error) error {
	chunks := chunkSlice(items, batchSize)
	for i, batch := range chunks {
		if err := fn(batch, i, len(chunks)); err != nil {
			return err
		}
	}
	return nil
}
