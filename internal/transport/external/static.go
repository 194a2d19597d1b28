package external

import (
	"context"
	"strings"
)

// The built-in providers serve curated responses. Real integrations
// (PubMed, medical APIs, resource directories) would slot in behind the
// same Provider contract.

// ResearchProvider serves recent research summaries on treatment efficacy.
type ResearchProvider struct{}

func (ResearchProvider) Fetch(_ context.Context, question string) (string, error) {
	if strings.Contains(strings.ToLower(question), "depression") {
		return "Recent research shows that combination therapy (medication + psychotherapy) " +
			"is most effective for treating depression. A 2024 study found that cognitive " +
			"behavioral therapy with mindfulness components showed 70% improvement rates.\n\n" +
			"However, for immediate personal support, I recommend using proven coping strategies. " +
			"Would you like me to share some techniques that can help right now?", nil
	}
	return "", nil
}

// ConditionFactsProvider serves prevalence and symptom facts about conditions.
type ConditionFactsProvider struct{}

func (ConditionFactsProvider) Fetch(_ context.Context, question string) (string, error) {
	if strings.Contains(strings.ToLower(question), "anxiety") {
		return "Anxiety disorders affect about 40 million adults in the US (18.1% of the population). " +
			"They're highly treatable, yet only 36.9% of those suffering receive treatment.\n\n" +
			"Common symptoms include: excessive worry, restlessness, fatigue, difficulty concentrating, " +
			"and physical symptoms like rapid heartbeat.\n\n" +
			"If you're experiencing anxiety symptoms, I can share some immediate coping techniques. " +
			"Would that be helpful?", nil
	}
	return "", nil
}

// MedicalInfoProvider always declines with a safety disclaimer that redirects
// to qualified healthcare providers.
type MedicalInfoProvider struct{}

func (MedicalInfoProvider) Fetch(_ context.Context, _ string) (string, error) {
	return "I can't provide specific medical or medication advice. This type of information " +
		"should come from a qualified healthcare provider who knows your medical history.\n\n" +
		"For medication questions, please consult:\n" +
		"• Your prescribing doctor\n" +
		"• A pharmacist\n" +
		"• Your healthcare team\n\n" +
		"I can help with general coping strategies and emotional support techniques. " +
		"Would you like me to share some of those instead?", nil
}

// LocalResourcesProvider points to national directories since there is no
// location data available.
type LocalResourcesProvider struct{}

func (LocalResourcesProvider) Fetch(_ context.Context, _ string) (string, error) {
	return "I don't have access to location-specific data, but here are ways to find local resources:\n\n" +
		"• Psychology Today therapist finder: psychologytoday.com\n" +
		"• SAMHSA treatment locator: findtreatment.gov\n" +
		"• Your insurance provider's website\n" +
		"• Call 211 for local community resources\n" +
		"• Ask your primary care doctor for referrals\n\n" +
		"For immediate support, I can share coping strategies that work anywhere. " +
		"Would that be helpful while you search for local resources?", nil
}
