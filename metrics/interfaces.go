package metrics

import "time"

// Registry creates metrics under given path.
type Registry interface {
	NewTimer(path ...string) Timer
	NewCounter(path ...string) Counter
}

// Timer captures the duration and rate of events.
type Timer interface {
	Count() int64
	UpdateSince(ts time.Time)
}

// Counter is incrementing value.
type Counter interface {
	Count() int64
	Inc()
}
