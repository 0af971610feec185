package heapsched

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID   = errors.New("task id already in queue")
	ErrEmptyQueue    = errors.New("queue is empty")
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidUpdate = errors.New("priority update in wrong direction")
	ErrInvalidTask   = errors.New("invalid task")
)

// QueueError represents an error raised by a queue or scheduler operation
type QueueError struct {
	Op     string // Operation that failed
	TaskID string // ID of the task involved, if any
	Err    error  // Underlying error
}

func newQueueError(op, taskID string, err error) *QueueError {
	return &QueueError{
		Op:     op,
		TaskID: taskID,
		Err:    err,
	}
}

// Error returns the error message
func (e *QueueError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("heapsched.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("heapsched.%s: %v [task=%s]", e.Op, e.Err, e.TaskID)
}

// Unwrap returns the underlying error
func (e *QueueError) Unwrap() error {
	return e.Err
}
