package interactive

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vdevs/vdevs-go/pkg/metrics"
)

// metricsPrefix selects the device metrics from a shared gatherer.
const metricsPrefix = "vdevs_"

func metricsSnapshot(g prometheus.Gatherer) ([]metrics.Sample, error) {
	return metrics.Snapshot(g, metricsPrefix)
}
