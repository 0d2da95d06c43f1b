// Package parallel runs closures on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool dispatches work to its workers. With a single worker Do runs the
// closure inline and Wait returns immediately.
type Pool struct {
	wg      sync.WaitGroup
	workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1.
// Wait(true) closes the pool after the queued work finishes.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}
		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Rows splits [0, n) into contiguous bands, at most one per worker and
// none shorter than minRows, runs fn on each band and waits for all of
// them. The pool is closed afterwards.
func (p *Pool) Rows(n, minRows int, fn func(y0, y1 int)) {
	bands := min(p.workers, max(1, n/max(1, minRows)))
	step := (n + bands - 1) / bands

	for y0 := 0; y0 < n; y0 += step {
		y1 := min(n, y0+step)
		p.Do(func() { fn(y0, y1) })
	}
	p.Wait(true)
}
