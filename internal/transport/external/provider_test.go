package external

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wellspring-cloud/wellspring/internal/domain"
)

func TestRegistry_Fetch_Research(t *testing.T) {
	r := NewRegistry()

	got, err := r.Fetch(context.Background(), domain.TypeCurrentResearch, "latest research on depression treatment")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(got, "combination therapy") {
		t.Errorf("Fetch() = %q, want research summary", got)
	}

	// No data for topics outside the curated set.
	got, err = r.Fetch(context.Background(), domain.TypeCurrentResearch, "latest research on insomnia")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "" {
		t.Errorf("Fetch() = %q, want empty miss", got)
	}
}

func TestRegistry_Fetch_ConditionFacts(t *testing.T) {
	r := NewRegistry()

	got, err := r.Fetch(context.Background(), domain.TypeFactualCondition, "what is anxiety")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(got, "40 million adults") {
		t.Errorf("Fetch() = %q, want anxiety facts", got)
	}
}

func TestRegistry_Fetch_AlwaysAvailable(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		queryType domain.QueryType
		want      string
	}{
		{domain.TypeMedicalInfo, "qualified healthcare provider"},
		{domain.TypeLocalResources, "findtreatment.gov"},
	}

	for _, tt := range tests {
		got, err := r.Fetch(context.Background(), tt.queryType, "anything")
		if err != nil {
			t.Fatalf("Fetch(%s) error = %v", tt.queryType, err)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Fetch(%s) = %q, want substring %q", tt.queryType, got, tt.want)
		}
	}
}

func TestRegistry_Fetch_UnknownType(t *testing.T) {
	r := NewRegistry()

	got, err := r.Fetch(context.Background(), domain.TypeCrisis, "help")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "" {
		t.Errorf("Fetch() = %q, want empty for unregistered type", got)
	}
}

func TestRegistry_Fetch_CancelledContext(t *testing.T) {
	r := NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Fetch(ctx, domain.TypeMedicalInfo, "anything")
	if !errors.Is(err, domain.ErrExternalUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrExternalUnavailable", err)
	}
}

func TestRegistry_Register_Override(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.TypeCurrentResearch, fixedProvider{"custom research feed"})

	got, err := r.Fetch(context.Background(), domain.TypeCurrentResearch, "anything")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "custom research feed" {
		t.Errorf("Fetch() = %q, want override", got)
	}
}

type fixedProvider struct{ text string }

func (p fixedProvider) Fetch(context.Context, string) (string, error) { return p.text, nil }
