// Package compose turns retrieval results into user-facing answer text.
package compose

import (
	"fmt"
	"strings"

	"github.com/wellspring-cloud/wellspring/internal/domain"
)

const (
	highConfidence     = 0.6
	moderateConfidence = 0.3

	// Secondary result inclusion rules.
	secondaryMinSimilarity = 0.4
	secondaryExcerptLen    = 150
	dedupThreshold         = 0.7

	crisisFooter    = "\n\nIf you're in immediate danger: Call 988 (Crisis Lifeline) or 911"
	knowledgeFooter = "\n\n💙 This comes from my therapeutic knowledge base."
)

// FromResults formats retrieval results into a response, tiered by how well
// the best match fits. Crisis queries get the hotline footer instead of the
// knowledge-base attribution.
func FromResults(results []domain.RetrievalResult, queryType domain.QueryType) string {
	if len(results) == 0 {
		return NoResults(queryType)
	}

	best := results[0]
	var b strings.Builder

	switch {
	case queryType == domain.TypeCrisis:
		b.WriteString("🆘 Here's immediate help:\n\n")
		b.WriteString(best.Content)
		b.WriteString(crisisFooter)

	case best.Similarity > highConfidence:
		b.WriteString("Here's a technique that can help:\n\n")
		b.WriteString(best.Content)

		if len(results) > 1 && results[1].Similarity > secondaryMinSimilarity {
			second := results[1].Content
			if !tooSimilar(best.Content, second) {
				b.WriteString(fmt.Sprintf("\n\nAdditionally:\n%s...", excerpt(second, secondaryExcerptLen)))
			}
		}

	case best.Similarity > moderateConfidence:
		b.WriteString("I found some guidance that may help:\n\n")
		b.WriteString(best.Content)
		b.WriteString("\n\nThis may not fully address your specific situation, but it's a starting point.")

	default:
		b.WriteString("I found some related information:\n\n")
		b.WriteString(best.Content)
		b.WriteString("\n\nThis is general guidance and may not fully match your situation. ")
		b.WriteString("Consider speaking with a mental health professional for personalized support.")
	}

	if queryType != domain.TypeCrisis {
		b.WriteString(knowledgeFooter)
	}

	return b.String()
}

// NoResults returns the fallback response for an empty retrieval.
func NoResults(queryType domain.QueryType) string {
	if queryType == domain.TypeCrisis {
		return "🆘 I'm concerned about your safety. Please reach out for immediate help:\n\n" +
			"• Crisis Lifeline: 988\n" +
			"• Emergency Services: 911\n" +
			"• Crisis Text Line: Text HOME to 741741\n\n" +
			"You matter, and help is available."
	}

	switch queryType {
	case domain.TypeCurrentResearch, domain.TypeFactualCondition, domain.TypeMedicalInfo:
		return "I don't have current external data for this question. For the most up-to-date " +
			"information, please consult:\n\n" +
			"• A mental health professional\n" +
			"• Reputable medical websites (Mayo Clinic, WebMD)\n" +
			"• Your healthcare provider\n\n" +
			"I can help with coping strategies and emotional support techniques. " +
			"Would you like me to share some of those instead?"
	}

	return "I don't have specific guidance for your question in my current knowledge base. " +
		"Here are some general resources:\n\n" +
		"• Consider speaking with a mental health professional\n" +
		"• Try mindfulness: Take 5 slow, deep breaths\n" +
		"• Reach out to someone you trust\n\n" +
		"If you're in distress: Crisis Lifeline 988 is always available."
}

// SystemError is the response for unexpected pipeline failures.
func SystemError() string {
	return "I'm experiencing some technical difficulties. Please try again in a moment."
}

// tooSimilar reports whether two contents share too many words to both be
// worth showing. Overlap is measured against the smaller word set.
func tooSimilar(a, b string) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return true
	}

	smaller := wordsA
	if len(wordsB) < len(wordsA) {
		smaller = wordsB
	}
	other := wordsA
	if len(wordsB) >= len(wordsA) {
		other = wordsB
	}

	overlap := 0
	for w := range smaller {
		if _, ok := other[w]; ok {
			overlap++
		}
	}

	return float64(overlap)/float64(len(smaller)) > dedupThreshold
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
