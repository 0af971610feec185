package heapsched

import (
	"bytes"
	"fmt"
	"testing"
)

// logBuffer collects logger output for assertions
type logBuffer struct {
	buf bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (n int, err error) {
	return l.buf.Write(p)
}

func (l *logBuffer) String() string {
	return l.buf.String()
}

// checkInvariants fails the test if the heap order or the position index
// is broken.
func checkInvariants(t *testing.T, q *IndexedPriorityQueue) {
	t.Helper()

	tasks := q.h.tasks
	if len(q.h.pos) != len(tasks) {
		t.Fatalf("index has %d entries, heap has %d", len(q.h.pos), len(tasks))
	}
	for i, task := range tasks {
		if got, ok := q.h.pos[task.ID]; !ok || got != i {
			t.Fatalf("index[%s] = %d (present=%v), want %d", task.ID, got, ok, i)
		}
		if i == 0 {
			continue
		}
		parent := (i - 1) / 2
		if !Before(tasks[parent], task) {
			t.Fatalf("heap order violated: %s at %d does not precede %s at %d",
				tasks[parent].ID, parent, task.ID, i)
		}
	}
}

// drain extracts everything and returns the ids in extraction order.
func drain(t *testing.T, q *IndexedPriorityQueue) []string {
	t.Helper()

	var ids []string
	for !q.IsEmpty() {
		task, err := q.ExtractMax()
		if err != nil {
			t.Fatalf("ExtractMax: %v", err)
		}
		ids = append(ids, task.ID)
		checkInvariants(t, q)
	}
	return ids
}

type hookEvent struct {
	kind string
	tick int
	id   string
}

func (e hookEvent) String() string {
	return fmt.Sprintf("%s@%d:%s", e.kind, e.tick, e.id)
}

// recordingHook stores every scheduler event in order
type recordingHook struct {
	events []hookEvent
}

func (h *recordingHook) OnArrive(tick int, task *Task) {
	h.events = append(h.events, hookEvent{"arrive", tick, task.ID})
}

func (h *recordingHook) OnDispatch(tick int, task *Task) {
	h.events = append(h.events, hookEvent{"dispatch", tick, task.ID})
}

func (h *recordingHook) OnComplete(tick int, task *Task) {
	h.events = append(h.events, hookEvent{"complete", tick, task.ID})
}

func demoTasks() []*Task {
	return []*Task{
		NewTask("A", 5, 0, 10).WithDuration(2),
		NewTask("B", 9, 1, 5),
		NewTask("C", 5, 1, 3).WithDuration(2),
		NewTask("D", 1, 2, 9),
	}
}
