// Package assistant orchestrates the full answer pipeline: validation,
// routing, retrieval, composition, confidence scoring, and logging.
package assistant

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	"github.com/wellspring-cloud/wellspring/internal/logger"
	"github.com/wellspring-cloud/wellspring/internal/metrics"
	"github.com/wellspring-cloud/wellspring/internal/repository/querylog"
	"github.com/wellspring-cloud/wellspring/internal/usecase/compose"
	"github.com/wellspring-cloud/wellspring/internal/usecase/confidence"
	"github.com/wellspring-cloud/wellspring/internal/usecase/triage"
)

// externalConfidence is the fixed confidence assigned to external answers.
const externalConfidence = 0.8

// Options tune the retrieval and external routing behavior.
type Options struct {
	MaxResults      int
	MinSimilarity   float64
	ExternalTimeout time.Duration
}

// Service answers user questions by routing between the internal knowledge
// base and external data sources.
type Service struct {
	search   Searcher
	external ExternalFetcher
	log      QueryLogger
	opts     Options
}

// New creates the assistant service. The query logger may be nil; logging is
// best-effort and never fails a query.
func New(search Searcher, external ExternalFetcher, log QueryLogger, opts Options) *Service {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 3
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = 0.2
	}
	if opts.ExternalTimeout <= 0 {
		opts.ExternalTimeout = 10 * time.Second
	}
	return &Service{search: search, external: external, log: log, opts: opts}
}

// Ask processes a question end to end and always returns a usable answer.
// Pipeline failures degrade to a generic response instead of an error so the
// caller always has text to show.
func (s *Service) Ask(ctx context.Context, question string) (answer domain.Answer) {
	start := time.Now()
	lg := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			lg.Error("query pipeline panic", zap.Any("panic", r))
			answer = s.finish(ctx, question, domain.Answer{
				Text:       compose.SystemError(),
				Confidence: 0.0,
				Source:     domain.SourceSystemError,
			}, start)
		}
	}()

	if err := triage.Validate(question); err != nil {
		var verr *domain.ValidationError
		text := compose.SystemError()
		if errors.As(err, &verr) {
			text = verr.Message
		}
		return s.finish(ctx, question, domain.Answer{
			Text:       text,
			Confidence: 0.0,
			Source:     domain.SourceValidationError,
		}, start)
	}

	cls := triage.Classify(question)

	if cls.NeedsExternal {
		if text, ok := s.tryExternal(ctx, cls.Type, question); ok {
			return s.finish(ctx, question, domain.Answer{
				Text:       text,
				Confidence: externalConfidence,
				Source:     domain.SourceExternalAPI,
				QueryType:  cls.Type,
			}, start)
		}
		lg.Info("external source unavailable, falling back to internal knowledge",
			zap.String("query_type", string(cls.Type)))
	}

	results := s.search.Search(ctx, question, s.opts.MaxResults, s.opts.MinSimilarity)

	if len(results) == 0 {
		return s.finish(ctx, question, domain.Answer{
			Text:       compose.NoResults(cls.Type),
			Confidence: 0.0,
			Source:     domain.SourceNoResults,
			QueryType:  cls.Type,
		}, start)
	}

	similarities := make([]float64, len(results))
	for i, r := range results {
		similarities[i] = r.Similarity
	}

	return s.finish(ctx, question, domain.Answer{
		Text:       compose.FromResults(results, cls.Type),
		Confidence: confidence.Score(similarities, utf8.RuneCountInString(question), domain.SourceInternal),
		Source:     domain.SourceInternal,
		QueryType:  cls.Type,
	}, start)
}

// tryExternal fetches from the external source under its own timeout.
// A miss, error, or timeout all mean "fall back".
func (s *Service) tryExternal(ctx context.Context, t domain.QueryType, question string) (string, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.ExternalTimeout)
	defer cancel()

	text, err := s.external.Fetch(fetchCtx, t, question)
	if err != nil {
		reason := "error"
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		logger.FromContext(ctx).Warn("external fetch failed",
			zap.String("query_type", string(t)), zap.Error(err))
		metrics.ExternalFallbacksTotal.WithLabelValues(string(t), reason).Inc()
		return "", false
	}
	if text == "" {
		metrics.ExternalFallbacksTotal.WithLabelValues(string(t), "empty").Inc()
		return "", false
	}
	return text, true
}

// finish stamps timing, records metrics, and logs the interaction.
func (s *Service) finish(ctx context.Context, question string, a domain.Answer, start time.Time) domain.Answer {
	a.Elapsed = time.Since(start)

	metrics.QueriesTotal.WithLabelValues(string(a.Source), string(a.QueryType)).Inc()
	metrics.QueryDuration.WithLabelValues(string(a.Source)).Observe(a.Elapsed.Seconds())
	metrics.QueryConfidence.Observe(a.Confidence)

	if s.log != nil {
		err := s.log.Log(ctx, querylog.Entry{
			Query:         question,
			Response:      a.Text,
			Confidence:    a.Confidence,
			ProcessingSec: a.Elapsed.Seconds(),
			Source:        a.Source,
		})
		if err != nil {
			logger.FromContext(ctx).Warn("query log write failed", zap.Error(err))
		}
	}

	return a
}
