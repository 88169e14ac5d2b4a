package pool

import (
	"io"
	"runtime"
	"sync"
)

// searchAlone runs f, which may return nil, until count elements are found
func searchAlone(f func() interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		for results[i] = f(); results[i] == nil; results[i] = f() {
		}
	}
	return results
}

// search is handed to every worker for the duration of one Search call.
type search struct {
	f       func() interface{}
	found   chan<- interface{}
	stopped <-chan struct{}
}

// run keeps calling f until the search is stopped, forwarding every success.
func (s search) run() {
	for {
		select {
		case <-s.stopped:
			return
		default:
		}
		res := s.f()
		if res == nil {
			continue
		}
		select {
		case s.found <- res:
		case <-s.stopped:
			return
		}
	}
}

func worker(searches <-chan search) {
	for s := range searches {
		s.run()
	}
}

// Pool represents a pool of workers, used for parallelizing searches.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	searches    chan search
	workerCount int
	// one search at a time occupies every worker
	mu sync.Mutex
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		searches:    make(chan search),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.searches)
	}
	return p
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.searches)
}

// Search queries the function f, until count successes are found.
//
// f is supposed to try a single candidate, returning nil if that candidate isn't
// successful. It is called concurrently from every worker.
//
// The result will be a slice containing the first count successes.
func (p *Pool) Search(count int, f func() interface{}) []interface{} {
	if p == nil {
		return searchAlone(f, count)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	found := make(chan interface{})
	stopped := make(chan struct{})
	s := search{f: f, found: found, stopped: stopped}
	for i := 0; i < p.workerCount; i++ {
		p.searches <- s
	}
	results := make([]interface{}, 0, count)
	for len(results) < count {
		results = append(results, <-found)
	}
	close(stopped)
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// Naturally, when calling this function concurrently, what value ends up getting
// read is raced, but you won't end up reading the same value twice, or otherwise
// messing up the state of the reader.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
