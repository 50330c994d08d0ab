package model

// Intent is the outcome of classifying one utterance.
type Intent string

const (
	IntentIntroduce Intent = "introduce"
	IntentMenu      Intent = "menu"
	IntentOrder     Intent = "order"
	IntentStatus    Intent = "status"
	IntentFarewell  Intent = "farewell"
	IntentClarify   Intent = "clarify"
	IntentFallback  Intent = "fallback"
)

// Extraction is the order extractor's result for one utterance.
// AmbiguousCategory is set (and Items nil) for a bare category mention.
type Extraction struct {
	Items             []OrderLineItem
	Total             int
	AmbiguousCategory string
}

// Classification is the intent plus whatever the classifier computed on the way.
type Classification struct {
	Intent   Intent
	Category string // menu filter or ambiguous category, lower-cased
	Order    Extraction
}

// TurnInput is the graph input: one utterance for one session.
type TurnInput struct {
	SessionID string `json:"session_id"`
	Utterance string `json:"utterance"`
}

// Turn flows through the conversation graph; nodes fill Reply.
type Turn struct {
	Input          TurnInput
	Session        *Session
	Classification Classification
	Reply          string
}

// TurnState is graph-local state for a single invocation.
// It is only touched inside eino state handlers or compose.ProcessState.
type TurnState struct {
	SessionID string
	Intent    Intent
	// Accumulated LLM cost (USD) for this turn; only the fallback path spends any.
	TotalCostUSD float64
}
