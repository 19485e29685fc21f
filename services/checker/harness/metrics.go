package harness

import "github.com/prometheus/client_golang/prometheus"

type harnessMetrics struct {
	rounds    prometheus.Counter
	successes prometheus.Counter
	failures  prometheus.Counter
}

// newHarnessMetrics returns nil if no registerer is provided
func newHarnessMetrics(registerer prometheus.Registerer) (*harnessMetrics, error) {
	if registerer == nil {
		return nil, nil
	}

	metrics := &harnessMetrics{
		rounds:    newCounter("rounds_total", "Validation rounds executed"),
		successes: newCounter("successes_total", "Metric checks that passed"),
		failures:  newCounter("failures_total", "Metric checks, probes and change awaits that failed"),
	}

	for _, collector := range []prometheus.Collector{metrics.rounds, metrics.successes, metrics.failures} {
		err := registerer.Register(collector)
		if err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

func newCounter(name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "dogstatsd_checker",
		Subsystem: "harness",
		Name:      name,
		Help:      help,
	})
}
