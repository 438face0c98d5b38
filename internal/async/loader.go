// Package async runs file loads off the main loop. Workers never touch
// engine state: each completion is queued and handed back to the main loop
// when it drains the queue.
package async

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent loads.
const DefaultWorkers = 4

// ReadFunc loads a named file.
type ReadFunc func(name string) ([]byte, error)

// Result is a finished load.
type Result struct {
	ID   int
	Name string
	Data []byte
	Err  error
}

// Loader dispatches reads to a bounded pool of goroutines.
type Loader struct {
	read   ReadFunc
	group  errgroup.Group
	mu     sync.Mutex
	queue  []Result
	nextID int
	closed bool
}

// NewLoader creates a loader that reads through fn.
func NewLoader(fn ReadFunc, workers int) *Loader {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	l := &Loader{read: fn}
	l.group.SetLimit(workers)
	return l
}

// Submit starts loading name and returns the operation id. It blocks only
// while all workers are busy. After Wait it returns 0 and does nothing.
func (l *Loader) Submit(name string) int {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0
	}
	l.nextID++
	id := l.nextID
	l.mu.Unlock()

	l.group.Go(func() error {
		data, err := l.read(name)
		l.mu.Lock()
		l.queue = append(l.queue, Result{ID: id, Name: name, Data: data, Err: err})
		l.mu.Unlock()
		return nil
	})
	return id
}

// Drain hands every queued completion to fn on the calling goroutine and
// returns how many there were.
func (l *Loader) Drain(fn func(Result)) int {
	l.mu.Lock()
	pending := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, r := range pending {
		fn(r)
	}
	return len(pending)
}

// Wait stops accepting new work and blocks until every in-flight load has
// queued its result.
func (l *Loader) Wait() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	_ = l.group.Wait()
}
