package radiusmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-radius/raddecode/internal/radiusmetrics"
)

func TestNewRegistersCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := radiusmetrics.New(reg)

	c.PairsDecoded.WithLabelValues("octets").Inc()
	c.RawDemotions.WithLabelValues("bad_tlv_header").Inc()
	c.DecodeFailures.WithLabelValues("insufficient_data").Inc()
	c.PacketsSeen.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("got %d metric families, want 4", len(families))
	}
}
