package worker

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/peek/oerror"
	"github.com/sirupsen/logrus"
)

// Pool runs submitted functions on a fixed amount of goroutines. A panicking function is recovered, logged and
// reported to sentry without taking the worker down.
type Pool struct {
	log   *logrus.Logger
	queue chan func()

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts a Pool with the amount of workers passed.
func New(workers int, log *logrus.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Pool{log: log, queue: make(chan func(), workers*16)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer func() {
		if r := recover(); r != nil {
			err := oerror.Recovered(r)
			p.log.Errorf("worker recovered: %v", err)

			hub := sentry.CurrentHub().Clone()
			hub.Recover(r)
			hub.Flush(time.Second * 5)
		}
	}()
	f()
}

// Submit queues a function to be run by one of the workers. It blocks while the queue is full.
func (p *Pool) Submit(f func()) {
	p.queue <- f
}

// Execute implements handler.Context's Execute by submitting the function to the pool.
func (p *Pool) Execute(f func()) {
	p.Submit(f)
}

// Close stops accepting work and waits for queued functions to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}
