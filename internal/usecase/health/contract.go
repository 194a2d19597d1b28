package health

import "context"

// DBPinger checks query-log database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// KnowledgeCounter reports the knowledge base document count.
type KnowledgeCounter interface {
	Count() int
}
