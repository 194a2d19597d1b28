package domain

// QueryType is the topic/urgency category assigned to a query.
// Assignment is a total function of query text: every query maps to exactly
// one type, with TypePersonalSupport as the default.
type QueryType string

const (
	// TypeCrisis marks safety-critical queries. Never routed externally.
	TypeCrisis QueryType = "crisis"
	// TypeCurrentResearch marks queries about recent studies or treatment news.
	TypeCurrentResearch QueryType = "current_research"
	// TypeFactualCondition marks definitional questions about named conditions.
	TypeFactualCondition QueryType = "factual_condition"
	// TypeMedicalInfo marks medication and prescription questions.
	TypeMedicalInfo QueryType = "medical_info"
	// TypeLocalResources marks requests for nearby services.
	TypeLocalResources QueryType = "local_resources"
	// TypeCopingStrategy marks requests for techniques and coping help.
	TypeCopingStrategy QueryType = "coping_strategy"
	// TypePersonalSupport is the default category.
	TypePersonalSupport QueryType = "personal_support"
)

// Classification is the routing decision for a query.
type Classification struct {
	Type          QueryType
	NeedsExternal bool
}

// SourceTag identifies where a response came from, for logging and analytics.
type SourceTag string

const (
	// SourceExternalAPI marks responses served by an external data provider.
	SourceExternalAPI SourceTag = "external_api"
	// SourceInternal marks responses composed from the knowledge store.
	SourceInternal SourceTag = "internal_knowledge"
	// SourceNoResults marks responses where retrieval found nothing.
	SourceNoResults SourceTag = "no_results"
	// SourceValidationError marks rejected queries.
	SourceValidationError SourceTag = "validation_error"
	// SourceSystemError marks unexpected pipeline failures.
	SourceSystemError SourceTag = "system_error"
)
