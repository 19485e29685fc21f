package metrics

import (
	"fmt"
	"sync"
)

// registry holds the application metrics in registration order
type registry struct {
	mut     sync.RWMutex
	metrics map[string]*Metric
	order   []string
}

// NewRegistry creates an empty metrics registry
func NewRegistry() *registry {
	return &registry{
		metrics: make(map[string]*Metric),
		order:   make([]string, 0),
	}
}

// Register adds a new metric starting from its initial value
func (r *registry) Register(name string, metricType Type, initialValue int64, resetAfterPush bool) error {
	if len(name) == 0 {
		return errEmptyName
	}
	if metricType != Counter && metricType != Gauge {
		return fmt.Errorf("%w %d for %s", errUnknownType, metricType, name)
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	_, found := r.metrics[name]
	if found {
		return fmt.Errorf("%w: %s", errDuplicateMetric, name)
	}

	r.metrics[name] = &Metric{
		Name:           name,
		Type:           metricType,
		Value:          initialValue,
		InitialValue:   initialValue,
		ResetAfterPush: resetAfterPush,
	}
	r.order = append(r.order, name)

	return nil
}

// Inc adds one to the metric
func (r *registry) Inc(name string) error {
	return r.Add(name, 1)
}

// Add adds the delta to the metric
func (r *registry) Add(name string, delta int64) error {
	return r.update(name, func(m *Metric) {
		m.Value += delta
	})
}

// Set replaces the metric value
func (r *registry) Set(name string, value int64) error {
	return r.update(name, func(m *Metric) {
		m.Value = value
	})
}

func (r *registry) update(name string, handler func(m *Metric)) error {
	r.mut.Lock()
	defer r.mut.Unlock()

	m, found := r.metrics[name]
	if !found {
		return fmt.Errorf("%w: %s", errUnknownMetric, name)
	}

	handler(m)

	return nil
}

// Get returns a copy of the named metric
func (r *registry) Get(name string) (Metric, bool) {
	r.mut.RLock()
	defer r.mut.RUnlock()

	m, found := r.metrics[name]
	if !found {
		return Metric{}, false
	}

	return *m, true
}

// SnapshotAndReset returns a copy of every metric, in registration order, and restores the initial value of the
// metrics flagged as reset-after-push. Both happen under the same write lock, so an update that lands after the
// call is kept for the next snapshot.
func (r *registry) SnapshotAndReset() []Metric {
	r.mut.Lock()
	defer r.mut.Unlock()

	snapshot := make([]Metric, 0, len(r.order))
	for _, name := range r.order {
		m := r.metrics[name]
		snapshot = append(snapshot, *m)
		if m.ResetAfterPush {
			m.Value = m.InitialValue
		}
	}

	return snapshot
}

// Len returns the number of registered metrics
func (r *registry) Len() int {
	r.mut.RLock()
	defer r.mut.RUnlock()

	return len(r.order)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *registry) IsInterfaceNil() bool {
	return r == nil
}
