package confidence

import (
	"math"
	"testing"

	"github.com/wellspring-cloud/wellspring/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		similarities []float64
		queryLen     int
		source       domain.SourceTag
		want         float64
	}{
		{"empty always zero", nil, 100, domain.SourceInternal, 0.0},
		{"empty zero even for external", nil, 100, domain.SourceExternalAPI, 0.0},
		{"single match short query", []float64{0.5}, 10, domain.SourceInternal, 0.5},
		{"multi match boost", []float64{0.5, 0.4}, 10, domain.SourceInternal, 0.6},
		{"single good match no boost", []float64{0.5, 0.2}, 10, domain.SourceInternal, 0.5},
		{"long query boost", []float64{0.5}, 21, domain.SourceInternal, 0.55},
		{"both boosts", []float64{0.5, 0.4}, 21, domain.SourceInternal, 0.65},
		{"external boost", []float64{0.5}, 10, domain.SourceExternalAPI, 0.7},
		{"external capped at one", []float64{0.95}, 21, domain.SourceExternalAPI, 1.0},
		{"no results zeroed", []float64{0.9}, 30, domain.SourceNoResults, 0.0},
		{"clamped at one", []float64{0.99, 0.98}, 30, domain.SourceInternal, 1.0},
		{"query length boundary", []float64{0.5}, 20, domain.SourceInternal, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.similarities, tt.queryLen, tt.source)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Adding a better similarity never lowers the score.
func TestScore_Monotonic(t *testing.T) {
	base := Score([]float64{0.4}, 10, domain.SourceInternal)
	better := Score([]float64{0.6, 0.4}, 10, domain.SourceInternal)
	if better < base {
		t.Errorf("score dropped from %v to %v when matches improved", base, better)
	}
}
