package scheduler

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Counter is an integer counter with change listeners. The Queue mutates its
// counters under its own lock, so listeners observe a linearizable sequence of
// values. Listeners run synchronously inside Increment/Decrement and must not
// call back into the Queue.
type Counter struct {
	name  string
	value atomic.Int64

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(value int)
}

func NewCounter(name string) *Counter {
	return &Counter{
		name:      name,
		listeners: make(map[int]func(int)),
	}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Get() int {
	return int(c.value.Load())
}

func (c *Counter) Increment() int {
	v := int(c.value.Add(1))
	c.notify(v)
	return v
}

// Decrement panics with *InvariantViolation when the counter would go below
// zero; that only happens when a task is completed twice.
func (c *Counter) Decrement() int {
	v := c.value.Add(-1)
	if v < 0 {
		c.value.Add(1)
		panic(violation("counter %q decremented below zero", c.name))
	}
	c.notify(int(v))
	return int(v)
}

// AddListener registers fn and returns a function removing it.
func (c *Counter) AddListener(fn func(value int)) (remove func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Counter) notify(v int) {
	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(int), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Counters groups the three queue counters.
type Counters struct {
	queued   *Counter
	running  *Counter
	finished *Counter
}

func NewCounters() *Counters {
	return &Counters{
		queued:   NewCounter("queued"),
		running:  NewCounter("running"),
		finished: NewCounter("finished"),
	}
}

// Queued counts tasks waiting for dispatch.
func (c *Counters) Queued() *Counter { return c.queued }

// Running counts dispatched tasks whose work has not completed.
func (c *Counters) Running() *Counter { return c.running }

// Finished counts terminal tasks, successful or not. It never decreases.
func (c *Counters) Finished() *Counter { return c.finished }

// Idle reports quiescence: nothing queued and nothing running.
func (c *Counters) Idle() bool {
	return c.running.Get() == 0 && c.queued.Get() == 0
}
