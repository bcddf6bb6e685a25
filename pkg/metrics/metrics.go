// Package metrics turns device events into Prometheus metrics.
//
// A Collector is a log.Logger, so it can be installed next to the file and
// slog loggers with log.NewMultiLogger.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vdevs/vdevs-go/pkg/log"
)

const (
	namespace = "vdevs"
	subsystem = "device"
)

// Collector counts device operations.
type Collector struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	sessions   *prometheus.GaugeVec
	devices    prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "operations_total",
				Help:      "Number of device operations, by node, operation and result status.",
			},
			[]string{"node", "op", "status"}),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "bytes_total",
				Help:      "Number of bytes transferred by reads and writes.",
			},
			[]string{"node", "direction"}),
		sessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "open_sessions",
				Help:      "Number of sessions currently open per node.",
			},
			[]string{"node"}),
		devices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "instances",
				Help:      "Number of probed device instances.",
			}),
	}

	for _, col := range []prometheus.Collector{c.operations, c.bytes, c.sessions, c.devices} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

// Log implements log.Logger.
func (c *Collector) Log(e log.Event) {
	c.operations.WithLabelValues(e.Node, e.Op.String(), e.Status.String()).Inc()

	if !e.Status.IsSuccess() {
		return
	}
	switch e.Op {
	case log.OpRead, log.OpWrite:
		if e.IO != nil && e.IO.Transferred > 0 {
			direction := "read"
			if e.Op == log.OpWrite {
				direction = "write"
			}
			c.bytes.WithLabelValues(e.Node, direction).Add(float64(e.IO.Transferred))
		}
	case log.OpOpen:
		c.sessions.WithLabelValues(e.Node).Inc()
	case log.OpClose:
		c.sessions.WithLabelValues(e.Node).Dec()
	case log.OpProbe:
		c.devices.Inc()
	case log.OpRemove:
		c.devices.Dec()
		c.sessions.DeleteLabelValues(e.Node)
	}
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot gathers the metrics of g whose name starts with prefix and
// flattens them into samples ordered by name and labels. An empty prefix
// selects everything.
func Snapshot(g prometheus.Gatherer, prefix string) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: formatLabels(m.GetLabel()),
				Value:  metricValue(mf.GetType(), m),
			})
		}
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return strings.Join(parts, ",")
}

func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	case dto.MetricType_SUMMARY:
		return float64(m.GetSummary().GetSampleCount())
	default:
		return 0
	}
}
