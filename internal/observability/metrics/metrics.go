package metrics

import "github.com/prometheus/client_golang/prometheus"

// SuggestionMetrics exposes counters/histograms for the slot suggestion pipeline.
type SuggestionMetrics struct {
	requestsTotal       *prometheus.CounterVec
	llmLatency          *prometheus.HistogramVec
	llmTokensTotal      *prometheus.CounterVec
	candidatesPerReply  prometheus.Histogram
	enrichmentFailures  prometheus.Counter
	constraintViolation *prometheus.CounterVec
}

func NewSuggestionMetrics(reg prometheus.Registerer) *SuggestionMetrics {
	m := &SuggestionMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slots",
			Subsystem: "suggestions",
			Name:      "requests_total",
			Help:      "Slot suggestion requests by outcome",
		}, []string{"outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slots",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Latency of completion calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		}, []string{"model", "status"}),
		llmTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slots",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens used by completion calls",
		}, []string{"model", "type"}),
		candidatesPerReply: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slots",
			Subsystem: "suggestions",
			Name:      "candidates",
			Help:      "Candidates extracted per completion",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 10},
		}),
		enrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slots",
			Subsystem: "suggestions",
			Name:      "enrichment_failures_total",
			Help:      "Candidates returned without a displayTime",
		}),
		constraintViolation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slots",
			Subsystem: "suggestions",
			Name:      "constraint_violations_total",
			Help:      "Returned slots breaking a requested scheduling rule",
		}, []string{"rule"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.requestsTotal,
		m.llmLatency,
		m.llmTokensTotal,
		m.candidatesPerReply,
		m.enrichmentFailures,
		m.constraintViolation,
	)
	return m
}

func (m *SuggestionMetrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *SuggestionMetrics) ObserveLLM(model, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(model, status).Observe(seconds)
}

func (m *SuggestionMetrics) ObserveTokens(model string, input, output, total int32) {
	if m == nil {
		return
	}
	if input > 0 {
		m.llmTokensTotal.WithLabelValues(model, "input").Add(float64(input))
	}
	if output > 0 {
		m.llmTokensTotal.WithLabelValues(model, "output").Add(float64(output))
	}
	if total > 0 {
		m.llmTokensTotal.WithLabelValues(model, "total").Add(float64(total))
	}
}

func (m *SuggestionMetrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidatesPerReply.Observe(float64(n))
}

func (m *SuggestionMetrics) ObserveEnrichmentFailures(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.enrichmentFailures.Add(float64(n))
}

func (m *SuggestionMetrics) ObserveViolation(rule string) {
	if m == nil {
		return
	}
	m.constraintViolation.WithLabelValues(rule).Inc()
}
