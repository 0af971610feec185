package heapsched

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdleMarker is the timeline label for a time unit in which nothing ran.
const IdleMarker = "IDLE"

// Options holds configuration options for the [Scheduler].
type Options struct {
	Logger     *zerolog.Logger
	IdleMarker string
	Hook       Hook
	RunID      uuid.UUID
}

// Option is a function that configures [Options].
type Option func(*Options)

// WithLogger sets the logger used for run and per-tick events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithIdleMarker replaces the default [IdleMarker] label.
func WithIdleMarker(marker string) Option {
	return func(o *Options) {
		o.IdleMarker = marker
	}
}

// WithHook sets a hook notified of arrivals, dispatches and completions.
func WithHook(hook Hook) Option {
	return func(o *Options) {
		o.Hook = hook
	}
}

// WithRunID fixes the run id instead of generating one per run.
func WithRunID(id uuid.UUID) Option {
	return func(o *Options) {
		o.RunID = id
	}
}
