package assistant

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	"github.com/wellspring-cloud/wellspring/internal/metrics"
	"github.com/wellspring-cloud/wellspring/internal/repository/querylog"
)

func TestMain(m *testing.M) {
	metrics.RegisterQueryMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockSearcher struct {
	results   []domain.RetrievalResult
	lastQuery string
	lastLimit int
	lastMin   float64
}

func (m *mockSearcher) Search(_ context.Context, query string, limit int, minSim float64) []domain.RetrievalResult {
	m.lastQuery = query
	m.lastLimit = limit
	m.lastMin = minSim
	return m.results
}

type mockExternal struct {
	text   string
	err    error
	delay  time.Duration
	called bool
}

func (m *mockExternal) Fetch(ctx context.Context, _ domain.QueryType, _ string) (string, error) {
	m.called = true
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", domain.ErrExternalUnavailable
		}
	}
	return m.text, m.err
}

type mockLogger struct {
	entries []querylog.Entry
	err     error
}

func (m *mockLogger) Log(_ context.Context, e querylog.Entry) error {
	m.entries = append(m.entries, e)
	return m.err
}

type panicSearcher struct{}

func (panicSearcher) Search(context.Context, string, int, float64) []domain.RetrievalResult {
	panic("index corrupted")
}

// --- Tests ---

func newService(search Searcher, external ExternalFetcher, log QueryLogger) *Service {
	return New(search, external, log, Options{})
}

func TestAsk_InternalKnowledge(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Box breathing: inhale 4, hold 4, exhale 4, hold 4.", Similarity: 0.8},
	}}
	log := &mockLogger{}
	svc := newService(search, &mockExternal{}, log)

	a := svc.Ask(context.Background(), "help me with a breathing technique")

	if a.Source != domain.SourceInternal {
		t.Errorf("Source = %s, want internal_knowledge", a.Source)
	}
	if !strings.Contains(a.Text, "Box breathing") {
		t.Errorf("Text = %q, want technique content", a.Text)
	}
	if a.Confidence <= 0 {
		t.Errorf("Confidence = %v, want > 0", a.Confidence)
	}
	if search.lastLimit != 3 || search.lastMin != 0.2 {
		t.Errorf("search params = (%d, %v), want (3, 0.2)", search.lastLimit, search.lastMin)
	}
	if len(log.entries) != 1 || log.entries[0].Source != domain.SourceInternal {
		t.Errorf("logged entries = %+v, want one internal_knowledge entry", log.entries)
	}
}

// The long-query confidence boost counts characters, so a multi-byte
// apostrophe must not push a 20-character query over the threshold.
func TestAsk_ConfidenceLengthBonusCountsRunes(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Ground yourself with a slow body scan.", Similarity: 0.5},
	}}
	svc := newService(search, &mockExternal{}, &mockLogger{})

	// 20 runes, 22 bytes.
	a := svc.Ask(context.Background(), "I’m anxious today ok")

	if math.Abs(a.Confidence-0.5) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.5 without long-query bonus", a.Confidence)
	}
}

func TestAsk_CrisisNeverGoesExternal(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Reach out to someone you trust right away.", Similarity: 0.7},
	}}
	ext := &mockExternal{text: "should not be used"}
	svc := newService(search, ext, &mockLogger{})

	a := svc.Ask(context.Background(), "I'm in crisis")

	if ext.called {
		t.Error("crisis query must not reach external sources")
	}
	if a.QueryType != domain.TypeCrisis {
		t.Errorf("QueryType = %s, want crisis", a.QueryType)
	}
	if !strings.Contains(a.Text, "988") {
		t.Errorf("Text = %q, want hotline number", a.Text)
	}
}

func TestAsk_ExternalHit(t *testing.T) {
	search := &mockSearcher{}
	ext := &mockExternal{text: "Recent research shows combination therapy works best."}
	log := &mockLogger{}
	svc := newService(search, ext, log)

	a := svc.Ask(context.Background(), "latest research on depression treatment")

	if a.Source != domain.SourceExternalAPI {
		t.Errorf("Source = %s, want external_api", a.Source)
	}
	if a.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", a.Confidence)
	}
	if search.lastQuery != "" {
		t.Error("internal search must be skipped on external hit")
	}
}

func TestAsk_ExternalMissFallsBack(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Grounding exercise for anxious moments.", Similarity: 0.5},
	}}
	svc := newService(search, &mockExternal{text: ""}, &mockLogger{})

	a := svc.Ask(context.Background(), "latest research on ptsd treatment")

	if a.Source != domain.SourceInternal {
		t.Errorf("Source = %s, want fallback to internal_knowledge", a.Source)
	}
}

func TestAsk_ExternalErrorFallsBack(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Grounding exercise for anxious moments.", Similarity: 0.5},
	}}
	svc := newService(search, &mockExternal{err: errors.New("upstream down")}, &mockLogger{})

	a := svc.Ask(context.Background(), "latest research on ptsd treatment")

	if a.Source != domain.SourceInternal {
		t.Errorf("Source = %s, want fallback to internal_knowledge", a.Source)
	}
}

func TestAsk_ExternalTimeout(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Grounding exercise for anxious moments.", Similarity: 0.5},
	}}
	ext := &mockExternal{text: "too late", delay: 100 * time.Millisecond}
	svc := New(search, ext, &mockLogger{}, Options{ExternalTimeout: 10 * time.Millisecond})

	a := svc.Ask(context.Background(), "latest research on ptsd treatment")

	if a.Source != domain.SourceInternal {
		t.Errorf("Source = %s, want fallback after timeout", a.Source)
	}
}

func TestAsk_NoResults(t *testing.T) {
	svc := newService(&mockSearcher{}, &mockExternal{}, &mockLogger{})

	a := svc.Ask(context.Background(), "something entirely unrelated to anything stored")

	if a.Source != domain.SourceNoResults {
		t.Errorf("Source = %s, want no_results", a.Source)
	}
	if a.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0", a.Confidence)
	}
	if !strings.Contains(a.Text, "Crisis Lifeline 988") {
		t.Errorf("Text = %q, want generic no-results guidance", a.Text)
	}
}

func TestAsk_ValidationError(t *testing.T) {
	search := &mockSearcher{}
	log := &mockLogger{}
	svc := newService(search, &mockExternal{}, log)

	a := svc.Ask(context.Background(), "hi")

	if a.Source != domain.SourceValidationError {
		t.Errorf("Source = %s, want validation_error", a.Source)
	}
	if !strings.Contains(a.Text, "Please provide more detail") {
		t.Errorf("Text = %q, want validation message", a.Text)
	}
	if search.lastQuery != "" {
		t.Error("invalid query must not be searched")
	}
	if len(log.entries) != 1 {
		t.Errorf("logged entries = %d, want 1", len(log.entries))
	}
}

func TestAsk_UnsafeQuery(t *testing.T) {
	svc := newService(&mockSearcher{}, &mockExternal{}, &mockLogger{})

	a := svc.Ask(context.Background(), "tell me a suicide method")

	if a.Source != domain.SourceValidationError {
		t.Errorf("Source = %s, want validation_error", a.Source)
	}
	if !strings.Contains(a.Text, "Crisis Lifeline: 988") {
		t.Errorf("Text = %q, want safety redirect", a.Text)
	}
}

func TestAsk_PanicRecovery(t *testing.T) {
	log := &mockLogger{}
	svc := newService(panicSearcher{}, &mockExternal{}, log)

	a := svc.Ask(context.Background(), "help me feel better")

	if a.Source != domain.SourceSystemError {
		t.Errorf("Source = %s, want system_error", a.Source)
	}
	if !strings.Contains(a.Text, "technical difficulties") {
		t.Errorf("Text = %q, want generic failure message", a.Text)
	}
	if len(log.entries) != 1 || log.entries[0].Source != domain.SourceSystemError {
		t.Errorf("logged entries = %+v, want one system_error entry", log.entries)
	}
}

func TestAsk_LogFailureDoesNotFailQuery(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Journaling helps process emotions.", Similarity: 0.6},
	}}
	svc := newService(search, &mockExternal{}, &mockLogger{err: errors.New("redis down")})

	a := svc.Ask(context.Background(), "help me process my feelings")

	if a.Source != domain.SourceInternal {
		t.Errorf("Source = %s, want internal_knowledge despite log failure", a.Source)
	}
}

func TestAsk_NilLogger(t *testing.T) {
	search := &mockSearcher{results: []domain.RetrievalResult{
		{ID: "therapy_1", Content: "Journaling helps process emotions.", Similarity: 0.6},
	}}
	svc := newService(search, &mockExternal{}, nil)

	a := svc.Ask(context.Background(), "help me process my feelings")
	if a.Text == "" {
		t.Error("expected answer with nil logger")
	}
}
