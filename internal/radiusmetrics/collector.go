// Package radiusmetrics exposes Prometheus counters for the RADIUS
// attribute decoder, grouped into a single registerable Collector.
package radiusmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "raddecode"
	subsystem = "decoder"
)

// Collector tracks attribute decode outcomes: how many pairs were
// produced, how many values were demoted to raw octets, and how many
// top-level decode calls failed outright, broken down by the labels
// callers care about for dashboards and alerting.
type Collector struct {
	PairsDecoded   *prometheus.CounterVec
	RawDemotions   *prometheus.CounterVec
	DecodeFailures *prometheus.CounterVec
	PacketsSeen    prometheus.Counter
}

// New constructs a Collector and registers it against reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		PairsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pairs_decoded_total",
			Help:      "Total number of attribute-value pairs successfully decoded.",
		}, []string{"kind"}),
		RawDemotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "raw_demotions_total",
			Help:      "Total number of attribute values demoted to raw octets after a decode failure.",
		}, []string{"reason"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "decode_failures_total",
			Help:      "Total number of top-level DecodePair calls that returned an error.",
		}, []string{"kind"}),
		PacketsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_seen_total",
			Help:      "Total number of packets submitted to the decoder.",
		}),
	}
	reg.MustRegister(c.PairsDecoded, c.RawDemotions, c.DecodeFailures, c.PacketsSeen)
	return c
}
