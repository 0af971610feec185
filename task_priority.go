package heapsched

import (
	"container/heap"
)

// taskHeap implements heap.Interface over task pointers. pos maps every
// queued task id to its slot and is kept in step by Swap, Push and Pop.
type taskHeap struct {
	tasks []*Task
	pos   map[string]int
}

var _ heap.Interface = (*taskHeap)(nil)

// Len returns the length of the heap
func (h *taskHeap) Len() int {
	return len(h.tasks)
}

// Less reports whether the task at i is served before the task at j
func (h *taskHeap) Less(i, j int) bool {
	return compareTasks(h.tasks[i], h.tasks[j]) < 0
}

// Swap swaps two elements and updates their positions
func (h *taskHeap) Swap(i, j int) {
	h.tasks[i], h.tasks[j] = h.tasks[j], h.tasks[i]
	h.pos[h.tasks[i].ID] = i
	h.pos[h.tasks[j].ID] = j
}

// Push appends a task at the end. Used by heap.Push, not called directly.
func (h *taskHeap) Push(x interface{}) {
	t := x.(*Task)
	h.pos[t.ID] = len(h.tasks)
	h.tasks = append(h.tasks, t)
}

// Pop removes the last task. Used by heap.Pop, not called directly.
func (h *taskHeap) Pop() interface{} {
	old := h.tasks
	n := len(old)
	t := old[n-1]
	old[n-1] = nil // help GC
	h.tasks = old[:n-1]
	delete(h.pos, t.ID)
	return t
}

// siftUp moves the task at i toward the root while it is served before
// its parent.
func (h *taskHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.Less(i, parent) {
			break
		}
		h.Swap(i, parent)
		i = parent
	}
}

// siftDown moves the task at i toward the leaves while one of its children
// is served before it.
func (h *taskHeap) siftDown(i int) {
	n := len(h.tasks)
	for {
		best := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.Less(left, best) {
			best = left
		}
		if right < n && h.Less(right, best) {
			best = right
		}
		if best == i {
			return
		}
		h.Swap(i, best)
		i = best
	}
}

// IndexedPriorityQueue is a binary max-heap of tasks with an id to slot
// index, so that priority updates run in O(log n) without a scan.
//
// The queue stores the caller's *Task. IncreaseKey and DecreaseKey change
// Priority on that shared record. Ids are unique over the lifetime of the
// queue: an id cannot be inserted again after its task was extracted. It is
// not safe for concurrent use.
type IndexedPriorityQueue struct {
	h    taskHeap
	seen map[string]struct{}
}

// NewIndexedPriorityQueue returns an empty queue.
func NewIndexedPriorityQueue() *IndexedPriorityQueue {
	return &IndexedPriorityQueue{
		h: taskHeap{
			tasks: make([]*Task, 0, 8),
			pos:   make(map[string]int),
		},
		seen: make(map[string]struct{}),
	}
}

// Insert adds a task. It fails with ErrDuplicateID if a task with the same
// id was ever inserted into this queue, leaving the queue unchanged.
func (q *IndexedPriorityQueue) Insert(t *Task) error {
	if t == nil {
		return newQueueError("Insert", "", ErrInvalidTask)
	}
	if _, ok := q.seen[t.ID]; ok {
		return newQueueError("Insert", t.ID, ErrDuplicateID)
	}
	q.seen[t.ID] = struct{}{}
	heap.Push(&q.h, t)
	return nil
}

// ExtractMax removes and returns the task served first. It fails with
// ErrEmptyQueue when there is nothing queued.
func (q *IndexedPriorityQueue) ExtractMax() (*Task, error) {
	if q.IsEmpty() {
		return nil, newQueueError("ExtractMax", "", ErrEmptyQueue)
	}
	return heap.Pop(&q.h).(*Task), nil
}

// IncreaseKey raises the priority of the queued task id. A newPriority
// below the current one fails with ErrInvalidUpdate.
func (q *IndexedPriorityQueue) IncreaseKey(id string, newPriority int) error {
	i, ok := q.h.pos[id]
	if !ok {
		return newQueueError("IncreaseKey", id, ErrTaskNotFound)
	}
	if newPriority < q.h.tasks[i].Priority {
		return newQueueError("IncreaseKey", id, ErrInvalidUpdate)
	}
	q.h.tasks[i].Priority = newPriority
	q.h.siftUp(i)
	return nil
}

// DecreaseKey lowers the priority of the queued task id. A newPriority
// above the current one fails with ErrInvalidUpdate.
func (q *IndexedPriorityQueue) DecreaseKey(id string, newPriority int) error {
	i, ok := q.h.pos[id]
	if !ok {
		return newQueueError("DecreaseKey", id, ErrTaskNotFound)
	}
	if newPriority > q.h.tasks[i].Priority {
		return newQueueError("DecreaseKey", id, ErrInvalidUpdate)
	}
	q.h.tasks[i].Priority = newPriority
	q.h.siftDown(i)
	return nil
}

// IsEmpty reports whether the queue holds no tasks.
func (q *IndexedPriorityQueue) IsEmpty() bool {
	return len(q.h.tasks) == 0
}

// Len returns the number of queued tasks.
func (q *IndexedPriorityQueue) Len() int {
	return len(q.h.tasks)
}

// Peek returns the task ExtractMax would return without removing it.
func (q *IndexedPriorityQueue) Peek() (*Task, error) {
	if q.IsEmpty() {
		return nil, newQueueError("Peek", "", ErrEmptyQueue)
	}
	return q.h.tasks[0], nil
}

// Contains reports whether a task with the given id is queued.
func (q *IndexedPriorityQueue) Contains(id string) bool {
	_, ok := q.h.pos[id]
	return ok
}

// Priority returns the current priority of the queued task id.
func (q *IndexedPriorityQueue) Priority(id string) (int, error) {
	i, ok := q.h.pos[id]
	if !ok {
		return 0, newQueueError("Priority", id, ErrTaskNotFound)
	}
	return q.h.tasks[i].Priority, nil
}
