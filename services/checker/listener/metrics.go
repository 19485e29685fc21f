package listener

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "dogstatsd_checker"
const metricsSubsystem = "listener"

type listenerMetrics struct {
	datagramsReceived prometheus.Counter
	bytesReceived     prometheus.Counter
	linesParsed       prometheus.Counter
	parseFailures     prometheus.Counter
	receiveErrors     prometheus.Counter
}

// newListenerMetrics returns nil if no registerer is provided
func newListenerMetrics(registerer prometheus.Registerer) (*listenerMetrics, error) {
	if registerer == nil {
		return nil, nil
	}

	metrics := &listenerMetrics{
		datagramsReceived: newCounter("datagrams_received_total", "Total UDP datagrams received"),
		bytesReceived:     newCounter("bytes_received_total", "Total bytes received from UDP"),
		linesParsed:       newCounter("lines_parsed_total", "Metric lines successfully parsed"),
		parseFailures:     newCounter("parse_failures_total", "Metric lines rejected as malformed"),
		receiveErrors:     newCounter("receive_errors_total", "Transient socket read errors"),
	}

	collectors := []prometheus.Collector{
		metrics.datagramsReceived,
		metrics.bytesReceived,
		metrics.linesParsed,
		metrics.parseFailures,
		metrics.receiveErrors,
	}
	for _, collector := range collectors {
		err := registerer.Register(collector)
		if err != nil {
			return nil, err
		}
	}

	return metrics, nil
}

func newCounter(name string, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      name,
		Help:      help,
	})
}
