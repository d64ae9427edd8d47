package abi

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/utf8arena/errors"
)

const namespace = "utf8arena"

// metrics holds the surface's counters. Gauges are computed at collection
// time from the handle table and the tracker, both of which are safe to read
// from a scraping goroutine; per-arena state is not.
type metrics struct {
	encodes      *prometheus.CounterVec
	encodedBytes prometheus.Counter
	warnings     prometheus.Counter
	arenas       *prometheus.Desc
	senders      *prometheus.Desc
}

func newMetrics() *metrics {
	return &metrics{
		encodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encodes_total",
			Help:      "Encode calls by result.",
		}, []string{"result"}),
		encodedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoded_bytes_total",
			Help:      "UTF-8 bytes produced by successful encodes.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "senders",
			Name:      "reconnect_warnings_total",
			Help:      "Frequent reconnect warnings raised by the connection tracker.",
		}),
		arenas: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "arenas"),
			"Live arena handles.", nil, nil),
		senders: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "senders", "active"),
			"Connection slots currently held.", nil, nil),
	}
}

// observeEncode counts one Encode call under "ok" or its error kind.
func (m *metrics) observeEncode(res EncodeResult) {
	if res.OK {
		m.encodes.WithLabelValues("ok").Inc()
		m.encodedBytes.Add(float64(len(res.Output)))
		return
	}
	result := "error"
	var e *errors.Error
	if stderrors.As(res.Err, &e) {
		result = string(e.Kind)
	}
	m.encodes.WithLabelValues(result).Inc()
}

// Describe implements prometheus.Collector.
func (s *Surface) Describe(ch chan<- *prometheus.Desc) {
	s.metrics.encodes.Describe(ch)
	s.metrics.encodedBytes.Describe(ch)
	s.metrics.warnings.Describe(ch)
	ch <- s.metrics.arenas
	ch <- s.metrics.senders
}

// Collect implements prometheus.Collector.
func (s *Surface) Collect(ch chan<- prometheus.Metric) {
	s.metrics.encodes.Collect(ch)
	s.metrics.encodedBytes.Collect(ch)
	s.metrics.warnings.Collect(ch)
	ch <- prometheus.MustNewConstMetric(s.metrics.arenas, prometheus.GaugeValue, float64(s.arenas.Len()))
	ch <- prometheus.MustNewConstMetric(s.metrics.senders, prometheus.GaugeValue, float64(s.tracker.Active()))
}
