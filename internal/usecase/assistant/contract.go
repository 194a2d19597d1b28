package assistant

import (
	"context"

	"github.com/wellspring-cloud/wellspring/internal/domain"
	"github.com/wellspring-cloud/wellspring/internal/repository/querylog"
)

// Searcher retrieves documents from the knowledge base by semantic similarity.
type Searcher interface {
	Search(ctx context.Context, query string, limit int, minSimilarity float64) []domain.RetrievalResult
}

// ExternalFetcher serves queries that need data beyond the knowledge base.
// Empty text without error means the source has nothing for this query.
type ExternalFetcher interface {
	Fetch(ctx context.Context, t domain.QueryType, question string) (string, error)
}

// QueryLogger records query interactions for analytics and feedback.
type QueryLogger interface {
	Log(ctx context.Context, e querylog.Entry) error
}
