package courtside

import "sync"

// task runs fn over data split into contiguous chunks, one goroutine per
// chunk. Each element is visited exactly once, so fn may mutate what an
// element points to as long as elements do not share state.
func task[T any](workersCount int, data []T, fn func(data T)) {
	if workersCount <= 1 || len(data) <= 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	workersCount = min(workersCount, len(data))
	chunkSize := (len(data) + workersCount - 1) / workersCount

	var wg sync.WaitGroup
	for start := 0; start < len(data); start += chunkSize {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, d := range chunk {
				fn(d)
			}
		}(data[start:min(start+chunkSize, len(data))])
	}
	wg.Wait()
}
