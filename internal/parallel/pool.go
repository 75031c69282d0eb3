// Package parallel runs batches of independent jobs on a fixed set of
// worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool runs jobs on a fixed number of goroutines. Each worker owns a
// queue and steals from the others when its own runs dry, which keeps the
// workers busy when job costs vary, as glyph outlines do.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu is held for reading while jobs are enqueued, so Close cannot
	// stop the workers between the closed check and the sends.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts a pool of n workers. n <= 0 uses GOMAXPROCS.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	depth := max(n*4, 8)

	p := &WorkerPool{
		workers: n,
		queues:  make([]chan func(), n),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.wg.Add(n)
	for i := range n {
		go p.work(i)
	}
	return p
}

func (p *WorkerPool) work(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
			continue
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case job := <-q:
			job()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.queues {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Run executes jobs and waits for all of them. On a closed pool the jobs
// run on the calling goroutine.
func (p *WorkerPool) Run(jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for _, job := range jobs {
			job()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			job()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Close stops the workers after the queued jobs ran. It is safe to call
// more than once and concurrently with Run. Jobs must not call Run on the
// pool they run on.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}
