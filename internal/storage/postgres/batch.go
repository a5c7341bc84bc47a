package postgres

import "fmt"

// batchRange is a half-open [From, To) slice window.
type batchRange struct {
	From int
	To   int
}

// batchRanges splits n items into consecutive windows of at most size items.
func batchRanges(n, size int) ([]batchRange, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if n < 0 {
		return nil, fmt.Errorf("item count must be >= 0")
	}

	ranges := make([]batchRange, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, batchRange{From: start, To: end})
	}
	return ranges, nil
}
