package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	knowledge KnowledgeCounter
}

// New creates a Service. embedding and knowledge can be nil.
func New(db DBPinger, embedding EmbeddingChecker, knowledge KnowledgeCounter) *Service {
	return &Service{db: db, embedding: embedding, knowledge: knowledge}
}

// Check runs health checks against all components. The query log and
// embedding provider are probed; the knowledge base is in-process, so only
// its document count is reported.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	docs := 0
	if s.knowledge != nil {
		docs = s.knowledge.Count()
	}

	return Report{Status: status, Checks: checks, Documents: docs}
}
