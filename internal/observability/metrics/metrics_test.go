package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestSuggestionMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSuggestionMetrics(reg)
	m.ObserveRequest("ok")
	m.ObserveRequest("ok")
	m.ObserveRequest("malformed_response")
	m.ObserveLLM("gpt-4.1-mini", "ok", 0.8)
	m.ObserveTokens("gpt-4.1-mini", 200, 30, 230)
	m.ObserveCandidates(3)
	m.ObserveEnrichmentFailures(2)
	m.ObserveEnrichmentFailures(0)
	m.ObserveViolation("weekday")

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.enrichmentFailures); got != 2 {
		t.Fatalf("expected 2 enrichment failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.llmTokensTotal.WithLabelValues("gpt-4.1-mini", "total")); got != 230 {
		t.Fatalf("expected 230 total tokens, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	hist := findFamily(families, "slots_suggestions_candidates")
	if hist == nil || len(hist.GetMetric()) != 1 {
		t.Fatalf("expected candidates histogram, got %v", hist)
	}
	if count := hist.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
		t.Fatalf("expected one candidates sample, got %d", count)
	}
}

func TestSuggestionMetricsNilSafe(t *testing.T) {
	var m *SuggestionMetrics
	m.ObserveRequest("ok")
	m.ObserveLLM("m", "error", 1)
	m.ObserveTokens("m", 1, 1, 2)
	m.ObserveCandidates(1)
	m.ObserveEnrichmentFailures(1)
	m.ObserveViolation("future")
}

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}
