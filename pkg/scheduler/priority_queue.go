package scheduler

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// PriorityQueue holds pending tasks: one FIFO per priority level, levels kept
// in a red-black tree ordered from highest to lowest priority so Left() is
// always the next level to serve. Not safe for concurrent use; the Queue owns
// it and guards it with its lock.
type PriorityQueue struct {
	levels *redblacktree.Tree
	size   int
}

func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{
		levels: redblacktree.NewWith(cmpPriority),
	}
}

// Offer appends t to the tail of its priority level.
func (q *PriorityQueue) Offer(t *Task) {
	p := t.request.priority
	var level *linkedlistqueue.Queue
	if v, found := q.levels.Get(p); found {
		level = v.(*linkedlistqueue.Queue)
	} else {
		level = linkedlistqueue.New()
		q.levels.Put(p, level)
	}
	level.Enqueue(t)
	q.size++
}

// PollHighest removes and returns the oldest task of the highest non-empty level.
func (q *PriorityQueue) PollHighest() (*Task, bool) {
	node := q.levels.Left()
	if node == nil {
		return nil, false
	}
	level := node.Value.(*linkedlistqueue.Queue)
	v, ok := level.Dequeue()
	if !ok {
		// empty levels are removed eagerly below
		panic(violation("empty priority level %s left in queue", node.Key.(Priority)))
	}
	if level.Empty() {
		q.levels.Remove(node.Key)
	}
	q.size--
	return v.(*Task), true
}

func (q *PriorityQueue) Size() int {
	return q.size
}

// Drain removes every task, in dispatch order.
func (q *PriorityQueue) Drain() []*Task {
	tasks := make([]*Task, 0, q.size)
	for {
		t, ok := q.PollHighest()
		if !ok {
			return tasks
		}
		tasks = append(tasks, t)
	}
}

// cmpPriority orders the tree so higher priorities come first.
func cmpPriority(a, b any) int {
	pa, pb := a.(Priority), b.(Priority)
	switch {
	case pa > pb:
		return -1
	case pa < pb:
		return 1
	default:
		return 0
	}
}
