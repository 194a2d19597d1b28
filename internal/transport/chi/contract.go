package chi

import (
	"context"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	knowledgerepo "github.com/wellspring-cloud/wellspring/internal/repository/knowledge"
	"github.com/wellspring-cloud/wellspring/internal/repository/querylog"
	healthuc "github.com/wellspring-cloud/wellspring/internal/usecase/health"
)

// Assistant answers user questions.
type Assistant interface {
	Ask(ctx context.Context, question string) domain.Answer
}

// Knowledge is the knowledge base management contract.
type Knowledge interface {
	Add(ctx context.Context, content string, metadata map[string]string) (string, error)
	Update(ctx context.Context, id, content string, metadata map[string]string) error
	Remove(id string) error
	Similar(id string, limit int) ([]domain.RetrievalResult, error)
	GetStats() knowledgerepo.Stats
}

// QueryLog records feedback and reports usage statistics.
type QueryLog interface {
	RecordFeedback(ctx context.Context, query string, rating float64) error
	GetStats(ctx context.Context) (querylog.Stats, error)
	Recent(ctx context.Context, limit int) ([]querylog.Entry, error)
}

// Health runs component health checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}
