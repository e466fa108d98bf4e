// Package batch splits id lists into store-sized query batches.
package batch

// Chunks partitions items into slices of at most size elements, preserving
// order. A size below 1 yields a single chunk with everything in it. An empty
// input yields no chunks.
func Chunks[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{items}
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
