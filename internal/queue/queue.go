// Package queue implements the in-process work queue used to serialise
// callbacks from Vim alongside work enqueued by the plugin itself.
package queue

import (
	"sync"
)

// Queue is a FIFO of work functions. Get never blocks; consumers wait on
// GotWork when the queue is empty.
type Queue struct {
	work    []func() error
	lock    sync.Mutex
	gotwork chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		gotwork: make(chan struct{}),
	}
}

// GotWork returns a channel that receives a value after each Add. The
// signal is sent from a separate goroutine so Add never blocks.
func (q *Queue) GotWork() <-chan struct{} {
	return q.gotwork
}

// Get returns the next work item if there is one.
func (q *Queue) Get() (work func() error, ok bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if ok = len(q.work) > 0; ok {
		work, q.work = q.work[0], q.work[1:]
	}
	return
}

// Add appends f to the queue.
func (q *Queue) Add(f func() error) {
	q.lock.Lock()
	q.work = append(q.work, f)
	go q.signalWork()
	q.lock.Unlock()
}

func (q *Queue) signalWork() {
	q.gotwork <- struct{}{}
}
