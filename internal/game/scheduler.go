package game

import (
	"container/heap"
	"time"
)

// TaskID identifies a scheduled task. The zero TaskID is never issued.
type TaskID uint64

// Scheduler is a deadline queue of delayed tasks driven by an explicit clock:
// nothing runs until Advance is called. Tasks run in deadline order, and
// tasks with the same deadline in the order they were scheduled.
//
// It is not safe for concurrent use.
type Scheduler struct {
	now     time.Time
	lastID  TaskID
	queue   taskQueue
	pending map[TaskID]*task
}

type task struct {
	id       TaskID
	deadline time.Time
	fn       func()
	index    int
}

// NewScheduler creates a Scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start, pending: make(map[TaskID]*task)}
}

// Now returns the current time of the scheduler's clock.
func (s *Scheduler) Now() time.Time { return s.now }

// After schedules fn to run once the clock advanced by d.
func (s *Scheduler) After(d time.Duration, fn func()) TaskID {
	s.lastID++
	t := &task{id: s.lastID, deadline: s.now.Add(d), fn: fn}
	heap.Push(&s.queue, t)
	s.pending[t.id] = t
	return t.id
}

// Cancel removes a pending task. It returns false if the task already ran or
// was cancelled.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, found := s.pending[id]
	if !found {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.pending, id)
	return true
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.queue = nil
	clear(s.pending)
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int { return len(s.queue) }

// NextDeadline returns the deadline of the earliest pending task.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].deadline, true
}

// Advance moves the clock to now and runs every task due by then, including
// tasks scheduled by the tasks themselves. While a task runs the clock reads
// its deadline, so periodic tasks don't drift. Moving the clock backwards is
// ignored. It returns the number of tasks run.
func (s *Scheduler) Advance(now time.Time) int {
	if now.Before(s.now) {
		return 0
	}
	ran := 0
	for len(s.queue) > 0 && !s.queue[0].deadline.After(now) {
		t := heap.Pop(&s.queue).(*task)
		delete(s.pending, t.id)
		s.now = t.deadline
		t.fn()
		ran++
	}
	s.now = now
	return ran
}

// taskQueue implements heap.Interface.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].id < q[j].id
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
