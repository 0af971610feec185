package heapsched

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Task is a unit of work for the queue and the scheduler. Only Priority may
// change once a task has been handed to a queue, and only through
// IncreaseKey or DecreaseKey.
type Task struct {
	ID          string `yaml:"id" mapstructure:"id"`
	Priority    int    `yaml:"priority" mapstructure:"priority"`
	ArrivalTime int    `yaml:"arrival_time" mapstructure:"arrival_time"`
	Deadline    int    `yaml:"deadline" mapstructure:"deadline"`
	Duration    int    `yaml:"duration" mapstructure:"duration" validate:"gte=1"`
}

// NewTask creates a task with a duration of one time unit.
func NewTask(id string, priority, arrivalTime, deadline int) *Task {
	return &Task{
		ID:          id,
		Priority:    priority,
		ArrivalTime: arrivalTime,
		Deadline:    deadline,
		Duration:    1,
	}
}

// WithDuration sets the number of time units the task runs for once
// dispatched and returns the task.
func (t *Task) WithDuration(d int) *Task {
	t.Duration = d
	return t
}

// compareTasks orders a before b when the result is negative: higher
// priority first, then earlier arrival, earlier deadline, smaller id.
func compareTasks(a, b *Task) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ArrivalTime, b.ArrivalTime); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Deadline, b.Deadline); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Before reports whether a is served before b.
func Before(a, b *Task) bool {
	return compareTasks(a, b) < 0
}

var taskValidator = validator.New()

func validateTask(t *Task) error {
	if t == nil {
		return newQueueError("Validate", "", ErrInvalidTask)
	}
	if err := taskValidator.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return newQueueError("Validate", t.ID,
				fmt.Errorf("%w: %s failed '%s'", ErrInvalidTask, fe.Field(), fe.Tag()))
		}
		return newQueueError("Validate", t.ID, fmt.Errorf("%w: %v", ErrInvalidTask, err))
	}
	return nil
}
