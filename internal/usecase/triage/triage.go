// Package triage validates incoming questions and classifies them so the
// assistant can pick the right data source.
package triage

import (
	"strings"

	"github.com/wellspring-cloud/wellspring/internal/domain"
)

const minQueryLen = 3

var unsafeTerms = []string{
	"suicide method",
	"how to kill",
	"ways to die",
	"overdose amount",
}

const safetyRedirect = "I'm concerned about your safety. Please reach out immediately:\n" +
	"• Crisis Lifeline: 988\n" +
	"• Emergency: 911"

// Validate checks a question for completeness and safety before any
// processing. Failures carry a user-facing message via domain.ValidationError.
func Validate(question string) error {
	if len(strings.TrimSpace(question)) < minQueryLen {
		return domain.NewValidationError("Please provide more detail about what you're experiencing.")
	}

	lower := strings.ToLower(question)
	for _, term := range unsafeTerms {
		if strings.Contains(lower, term) {
			return domain.NewValidationError(safetyRedirect)
		}
	}

	return nil
}

// rule maps trigger keywords to a classification. For rules with secondary
// keywords both sets must match.
type rule struct {
	keywords  []string
	secondary []string
	result    domain.Classification
}

// Ordered by precedence: crisis always wins, the internal-knowledge default
// comes last.
var rules = []rule{
	{
		keywords: []string{
			"crisis", "suicide", "emergency", "harm myself",
			"end my life", "ending my life", "kill myself", "want to die",
		},
		result: domain.Classification{Type: domain.TypeCrisis, NeedsExternal: false},
	},
	{
		keywords:  []string{"current", "latest", "recent", "news", "today", "this week"},
		secondary: []string{"research", "study", "therapy", "treatment", "mental health"},
		result:    domain.Classification{Type: domain.TypeCurrentResearch, NeedsExternal: true},
	},
	{
		keywords:  []string{"what is", "define", "statistics", "prevalence", "facts about"},
		secondary: []string{"depression", "anxiety", "ptsd", "bipolar", "adhd", "ocd"},
		result:    domain.Classification{Type: domain.TypeFactualCondition, NeedsExternal: true},
	},
	{
		keywords: []string{"medication", "drug", "prescription", "side effects", "dosage"},
		result:   domain.Classification{Type: domain.TypeMedicalInfo, NeedsExternal: true},
	},
	{
		keywords: []string{"near me", "in my area", "local", "therapist near", "clinic"},
		result:   domain.Classification{Type: domain.TypeLocalResources, NeedsExternal: true},
	},
	{
		keywords: []string{"help me", "coping", "technique", "strategy", "feel better"},
		result:   domain.Classification{Type: domain.TypeCopingStrategy, NeedsExternal: false},
	},
}

// Classify determines query type and whether external data is needed.
// Matching is case-insensitive substring search, first rule wins.
func Classify(question string) domain.Classification {
	lower := strings.ToLower(question)

	for _, r := range rules {
		if containsAny(lower, r.keywords) &&
			(len(r.secondary) == 0 || containsAny(lower, r.secondary)) {
			return r.result
		}
	}

	return domain.Classification{Type: domain.TypePersonalSupport, NeedsExternal: false}
}

// Urgency grades a question for logging and knowledge-base metadata.
func Urgency(question string) string {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, []string{"crisis", "suicide", "emergency", "harm myself", "kill myself"}):
		return "emergency"
	case containsAny(lower, []string{"panic attack", "can't breathe", "right now", "immediately"}):
		return "urgent"
	case containsAny(lower, []string{"help me", "struggling", "can't sleep", "feel terrible"}):
		return "moderate"
	default:
		return "low"
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
