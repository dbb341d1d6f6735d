package appointments

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/appointment-slots/internal/observability/metrics"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

const (
	OutcomeOK                = "ok"
	OutcomeUpstreamError     = "upstream_error"
	OutcomeMalformedResponse = "malformed_response"
)

var tracer = otel.Tracer("slots.internal.appointments")

// Service runs prompt → completion → extraction → enrichment → assembly for
// one request. It holds no per-request state and is safe for concurrent use.
type Service struct {
	completer *Completer
	enricher  *Enricher
	loc       *time.Location
	now       func() time.Time
	audit     bool
	metrics   *metrics.SuggestionMetrics
	logger    *logging.Logger
}

type Option func(*Service)

// WithClock overrides the reference clock used for the prompt and audit.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMetrics(m *metrics.SuggestionMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit toggles the scheduling-rule audit of returned slots.
func WithAudit(enabled bool) Option {
	return func(s *Service) { s.audit = enabled }
}

// NewService wires the pipeline. loc is used both for the reference date in
// the prompt and for rendering displayTime.
func NewService(completer *Completer, loc *time.Location, logger *logging.Logger, opts ...Option) *Service {
	if completer == nil {
		panic("appointments: completer cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		completer: completer,
		enricher:  NewEnricher(loc),
		loc:       loc,
		now:       time.Now,
		audit:     true,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns the payload for one preference string. Errors are
// *UpstreamError or *MalformedResponseError; either means no payload.
func (s *Service) Suggest(ctx context.Context, preferences string) (Response, error) {
	ctx, span := tracer.Start(ctx, "appointments.suggest",
		trace.WithAttributes(attribute.String("slots.llm.model", s.completer.Model())))
	defer span.End()

	s.logger.Info("slot suggestion requested", "preferences", preferences)

	now := s.now()
	prompt := BuildPrompt(preferences, now.In(s.loc))

	start := time.Now()
	raw, usage, err := s.completer.Complete(ctx, prompt)
	latency := time.Since(start)
	if err != nil {
		s.metrics.ObserveLLM(s.completer.Model(), "error", latency.Seconds())
		s.metrics.ObserveRequest(OutcomeUpstreamError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		s.logger.Error("completion call failed",
			"model", s.completer.Model(),
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return Response{}, err
	}
	s.metrics.ObserveLLM(s.completer.Model(), "ok", latency.Seconds())
	s.metrics.ObserveTokens(s.completer.Model(), usage.InputTokens, usage.OutputTokens, usage.TotalTokens)

	candidates, err := Extract(raw)
	if err != nil {
		s.metrics.ObserveRequest(OutcomeMalformedResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed completion")
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			s.logger.Warn("completion was not valid JSON", "error", malformed.Err, "raw", malformed.Raw)
		}
		return Response{}, err
	}
	s.metrics.ObserveCandidates(len(candidates))

	enriched := s.enricher.Enrich(candidates)
	failures := 0
	for i, a := range enriched {
		if a.Failure != nil {
			failures++
			s.logger.Debug("slot left without displayTime", "index", i, "error", a.Failure)
		}
	}
	s.metrics.ObserveEnrichmentFailures(failures)

	if s.audit {
		for _, v := range AuditAppointments(enriched, now, s.loc) {
			s.metrics.ObserveViolation(v.Rule)
			s.logger.Warn("suggested slot breaks scheduling rule",
				"index", v.Index,
				"rule", v.Rule,
				"start_time", v.Start.Format(time.RFC3339),
			)
		}
	}

	span.SetAttributes(
		attribute.Int("slots.raw_length", len(raw)),
		attribute.Int("slots.candidates", len(candidates)),
		attribute.Int("slots.enrichment_failures", failures),
		attribute.Float64("slots.llm.latency_ms", float64(latency.Milliseconds())),
	)
	s.metrics.ObserveRequest(OutcomeOK)
	s.logger.Info("slot suggestion ready",
		"candidates", len(candidates),
		"enrichment_failures", failures,
		"latency_ms", latency.Milliseconds(),
	)
	return Assemble(enriched), nil
}
