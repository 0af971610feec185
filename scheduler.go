package heapsched

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hook receives scheduler events in tick order.
type Hook interface {
	OnArrive(tick int, task *Task)
	OnDispatch(tick int, task *Task)
	OnComplete(tick int, task *Task)
}

// Dispatch records one task run. End is exclusive; a run cut off by the end
// of the simulation has End equal to the end time and Completed false.
type Dispatch struct {
	TaskID    string
	Arrival   int
	Start     int
	End       int
	Completed bool
}

// Waited returns how many ticks the task spent queued before it started.
func (d Dispatch) Waited() int {
	return d.Start - d.Arrival
}

// Result is the outcome of one simulation run.
type Result struct {
	RunID      uuid.UUID
	IdleMarker string
	Timeline   []string
	Dispatches []Dispatch

	// Dropped holds ids of tasks that arrive outside [0, endTime) and so
	// never enter the queue.
	Dropped []string

	// Pending holds ids still queued or running when the run ended.
	Pending []string
}

// Utilization returns the fraction of ticks in which a task ran. Busy ticks
// are counted from Dispatches, so a task whose id equals the idle marker
// still counts as busy.
func (r *Result) Utilization() float64 {
	if len(r.Timeline) == 0 {
		return 0
	}
	busy := 0
	for _, d := range r.Dispatches {
		busy += d.End - d.Start
	}
	return float64(busy) / float64(len(r.Timeline))
}

// Summary renders the timeline labels run-length encoded, e.g.
// "A*2 B IDLE*3".
func (r *Result) Summary() string {
	var sb strings.Builder
	for i := 0; i < len(r.Timeline); {
		j := i
		for j < len(r.Timeline) && r.Timeline[j] == r.Timeline[i] {
			j++
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Timeline[i])
		if n := j - i; n > 1 {
			fmt.Fprintf(&sb, "*%d", n)
		}
		i = j
	}
	return sb.String()
}

// Scheduler simulates non-preemptive, single-processor execution over
// discrete time units. Each tick it
//
//   - inserts the tasks arriving at that tick into an [IndexedPriorityQueue]
//   - dispatches the first queued task if nothing is running
//   - runs the current task for one unit, or records the idle marker
//
// A dispatched task runs to completion no matter what arrives meanwhile.
// Tasks arriving at or after the end time are never scheduled and are
// reported in [Result.Dropped].
type Scheduler struct {
	logger     *zerolog.Logger
	idleMarker string
	hook       Hook
	runID      uuid.UUID
}

// New creates a new [Scheduler] with the given options.
func New(opts ...Option) *Scheduler {
	o := &Options{IdleMarker: IdleMarker}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Scheduler{
		logger:     logger,
		idleMarker: o.IdleMarker,
		hook:       o.Hook,
		runID:      o.RunID,
	}
}

// Simulate runs tasks for endTime ticks with a default [Scheduler] and
// returns the timeline.
func Simulate(tasks []*Task, endTime int) ([]string, error) {
	return New().Simulate(tasks, endTime)
}

// Simulate runs tasks for endTime ticks and returns the timeline, one label
// per tick.
func (s *Scheduler) Simulate(tasks []*Task, endTime int) ([]string, error) {
	res, err := s.Run(tasks, endTime)
	if err != nil {
		return nil, err
	}
	return res.Timeline, nil
}

// Run simulates tasks for endTime ticks. Input is checked before tick 0:
// a task with a duration below one fails with ErrInvalidTask, and two tasks
// sharing an id fail with the queue's Insert error wrapping ErrDuplicateID,
// so no partial run is ever produced.
func (s *Scheduler) Run(tasks []*Task, endTime int) (*Result, error) {
	if endTime < 0 {
		endTime = 0
	}

	runID := s.runID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	logger := s.logger.With().Str("run", runID.String()).Logger()

	if err := checkInput(tasks); err != nil {
		logger.Error().Err(err).Msg("[sched] rejected input")
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		IdleMarker: s.idleMarker,
		Timeline:   make([]string, 0, endTime),
	}

	arrivals := make(map[int][]*Task)
	for _, t := range tasks {
		if t.ArrivalTime < 0 || t.ArrivalTime >= endTime {
			res.Dropped = append(res.Dropped, t.ID)
			continue
		}
		arrivals[t.ArrivalTime] = append(arrivals[t.ArrivalTime], t)
	}

	logger.Info().
		Int("tasks", len(tasks)).
		Int("endTime", endTime).
		Int("dropped", len(res.Dropped)).
		Msg("[sched] simulation started")

	debug := logger.GetLevel() <= zerolog.DebugLevel
	pq := NewIndexedPriorityQueue()

	var current *Task
	var run Dispatch
	remaining := 0

	for tick := 0; tick < endTime; tick++ {
		for _, t := range arrivals[tick] {
			if err := pq.Insert(t); err != nil {
				logger.Error().Err(err).Int("tick", tick).Msg("[sched] arrival failed")
				return nil, err
			}
			if s.hook != nil {
				s.hook.OnArrive(tick, t)
			}
			if debug {
				logger.Debug().Int("tick", tick).Str("taskID", t.ID).Int("priority", t.Priority).Msg("[sched|arrive]")
			}
		}

		if current == nil && !pq.IsEmpty() {
			next, err := pq.ExtractMax()
			if err != nil {
				return nil, err
			}
			current = next
			remaining = next.Duration
			run = Dispatch{TaskID: next.ID, Arrival: next.ArrivalTime, Start: tick}
			if s.hook != nil {
				s.hook.OnDispatch(tick, next)
			}
			if debug {
				logger.Debug().Int("tick", tick).Str("taskID", next.ID).Int("waited", run.Waited()).Msg("[sched|dispatch]")
			}
		}

		if current == nil {
			res.Timeline = append(res.Timeline, s.idleMarker)
			continue
		}

		res.Timeline = append(res.Timeline, current.ID)
		remaining--
		if remaining == 0 {
			run.End = tick + 1
			run.Completed = true
			res.Dispatches = append(res.Dispatches, run)
			if s.hook != nil {
				s.hook.OnComplete(tick, current)
			}
			if debug {
				logger.Debug().Int("tick", tick).Str("taskID", current.ID).Msg("[sched|complete]")
			}
			current = nil
		}
	}

	if current != nil {
		run.End = endTime
		res.Dispatches = append(res.Dispatches, run)
		res.Pending = append(res.Pending, current.ID)
	}
	for !pq.IsEmpty() {
		t, _ := pq.ExtractMax()
		res.Pending = append(res.Pending, t.ID)
	}

	logger.Info().
		Int("dispatched", len(res.Dispatches)).
		Int("pending", len(res.Pending)).
		Float64("utilization", res.Utilization()).
		Msg("[sched] simulation finished")

	return res, nil
}

// checkInput validates every task and inserts all of them into a scratch
// queue, so a shared id fails with the queue's own Insert error even when
// the second task would arrive past the horizon.
func checkInput(tasks []*Task) error {
	scratch := NewIndexedPriorityQueue()
	for _, t := range tasks {
		if err := validateTask(t); err != nil {
			return err
		}
		if err := scratch.Insert(t); err != nil {
			return err
		}
	}
	return nil
}
