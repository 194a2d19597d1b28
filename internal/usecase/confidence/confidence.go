// Package confidence scores how much trust to place in an answer given the
// retrieval similarities, the query, and the source that produced it.
package confidence

import "github.com/wellspring-cloud/wellspring/internal/domain"

const (
	goodMatchThreshold = 0.3
	multiMatchBoost    = 0.1
	longQueryLen       = 20
	longQueryBoost     = 0.05
	externalBoost      = 0.2
)

// Score computes a confidence value in [0, 1].
//
// The base is the best similarity, boosted when several results match well
// and when the query is long enough to carry real intent. queryLen is
// measured in characters, not bytes. External answers get a flat boost;
// no-result answers are always zero.
func Score(similarities []float64, queryLen int, source domain.SourceTag) float64 {
	if len(similarities) == 0 {
		return 0.0
	}

	c := similarities[0]
	good := 0
	for _, s := range similarities {
		if s > c {
			c = s
		}
		if s > goodMatchThreshold {
			good++
		}
	}

	if good > 1 {
		c += multiMatchBoost
	}
	if queryLen > longQueryLen {
		c += longQueryBoost
	}

	switch source {
	case domain.SourceExternalAPI:
		c = min(c+externalBoost, 1.0)
	case domain.SourceNoResults:
		c = 0.0
	}

	return max(0.0, min(1.0, c))
}
