package metrics

import "time"

// CompositeRegistry duplicates every metric to all underlying registries.
// Count of composite metric is taken from the first registry.
type CompositeRegistry struct {
	registries []Registry
}

func NewCompositeRegistry(registries ...Registry) *CompositeRegistry {
	return &CompositeRegistry{registries}
}

func (composite *CompositeRegistry) NewTimer(path ...string) Timer {
	return compositeTimer(fanOut(composite.registries, func(registry Registry) Timer {
		return registry.NewTimer(path...)
	}))
}

func (composite *CompositeRegistry) NewCounter(path ...string) Counter {
	return compositeCounter(fanOut(composite.registries, func(registry Registry) Counter {
		return registry.NewCounter(path...)
	}))
}

func fanOut[T any](registries []Registry, create func(Registry) T) []T {
	metrics := make([]T, 0, len(registries))
	for _, registry := range registries {
		metrics = append(metrics, create(registry))
	}
	return metrics
}

type compositeTimer []Timer

func (timers compositeTimer) Count() int64 {
	if len(timers) == 0 {
		return 0
	}
	return timers[0].Count()
}

func (timers compositeTimer) UpdateSince(ts time.Time) {
	for _, timer := range timers {
		timer.UpdateSince(ts)
	}
}

type compositeCounter []Counter

func (counters compositeCounter) Count() int64 {
	if len(counters) == 0 {
		return 0
	}
	return counters[0].Count()
}

func (counters compositeCounter) Inc() {
	for _, counter := range counters {
		counter.Inc()
	}
}
