package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/metrics"
)

func TestNewRegistryRegistersDistinctMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRegistry(reg)

	r.ImportAccepted.WithLabelValues("master").Inc()
	r.ImportRejected.WithLabelValues("lichess", "underrated").Inc()
	r.ResponseCacheHit.Inc()
	r.StoreRecords.WithLabelValues("standard").Set(42)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	var sawAccepted, sawStoreRecords bool
	for _, fam := range families {
		switch fam.GetName() {
		case "explorer_importer_accepted_total":
			sawAccepted = true
			require.Equal(t, float64(1), fam.Metric[0].GetCounter().GetValue())
		case "explorer_store_records":
			sawStoreRecords = true
			require.Equal(t, float64(42), firstGauge(fam.Metric))
		}
	}
	require.True(t, sawAccepted)
	require.True(t, sawStoreRecords)
}

func firstGauge(metrics []*dto.Metric) float64 {
	if len(metrics) == 0 {
		return 0
	}
	return metrics[0].GetGauge().GetValue()
}
