package utils

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MultiThread splits an operation on a range of integers across goroutines.
//
// It should be run sequentially, not in a separate thread; it is designed for
// use by layers in their mass calculations. The range includes 'start' and
// excludes 'end' -- MultiThread assumes that end ≥ start. 'f' is the function
// that will be run for each value in the range, and must be safe to call
// concurrently for distinct values. 'opsPerThread' is the number of
// operations a goroutine claims at a time; 'threadsPerCPU' is the number of
// goroutines created for each CPU.
func MultiThread(start, end int, f func(int), opsPerThread, threadsPerCPU int) {
	if opsPerThread < 1 {
		opsPerThread = 1
	}
	if threadsPerCPU < 1 {
		threadsPerCPU = 1
	}

	numThreads := runtime.NumCPU() * threadsPerCPU

	// cursor is the next unclaimed index, offset by 'start'
	var cursor atomic.Int64
	span := int64(end - start)

	var wg sync.WaitGroup
	wg.Add(numThreads)

	for thread := 0; thread < numThreads; thread++ {
		go func() {
			defer wg.Done()

			for {
				i := cursor.Add(int64(opsPerThread)) - int64(opsPerThread)
				if i >= span {
					return
				}

				e := i + int64(opsPerThread)
				if e > span {
					e = span
				}

				for ; i < e; i++ {
					f(start + int(i))
				}
			}
		}()
	}

	wg.Wait()
}
