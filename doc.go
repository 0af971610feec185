// Package heapsched implements an indexed binary max-heap of tasks and a
// discrete-time, non-preemptive scheduler built on it.
//
// The [IndexedPriorityQueue] keeps a task id to heap slot index next to the
// heap, so that besides insertion and extraction a queued task's priority
// can be raised or lowered in O(log n) without searching for it. Tasks are
// ordered by priority (highest first), then arrival time, deadline and id.
//
// The [Scheduler] advances one time unit at a time: arriving tasks are
// queued, an idle processor takes the first queued task, and a dispatched
// task runs until its duration elapses regardless of later arrivals.
package heapsched
