package router

import "assistant-chatbot/internal/models"

// VocabEntry is one weighted keyword or phrase. Multi-word phrases carry
// higher weight than single generic words so that "code of conduct" beats an
// incidental "report" somewhere in the message.
type VocabEntry struct {
	Phrase string
	Weight float64
}

// Vocabulary is the routing signal table for one agent. Ceiling is the score
// used to normalize confidence into [0,1]; a query matching ten generic
// keywords is treated as maximal evidence.
type Vocabulary struct {
	Agent   models.AgentID
	Ceiling float64
	Entries []VocabEntry
}

const (
	weightWord   = 1.0
	weightPhrase = 2.0

	defaultCeiling = 10.0
)

// Vocabularies holds the per-agent keyword tables. Routing behavior is
// extended by editing this data, never by adding branches to the scorer.
var Vocabularies = []Vocabulary{
	{
		Agent:   models.AgentHR,
		Ceiling: defaultCeiling,
		Entries: []VocabEntry{
			// Core HR terms
			{"employee", weightWord}, {"staff", weightWord}, {"hire", weightWord},
			{"hiring", weightWord}, {"skill", weightWord}, {"skills", weightWord},
			{"team", weightWord}, {"teams", weightWord}, {"org chart", weightPhrase},
			{"organization", weightWord}, {"organizational", weightWord},
			{"personnel", weightWord}, {"workforce", weightWord},
			// HR processes
			{"onboarding", weightWord}, {"offboarding", weightWord},
			{"recruitment", weightWord}, {"recruiting", weightWord},
			{"interview", weightWord}, {"performance", weightWord},
			{"review", weightWord}, {"evaluation", weightWord},
			{"promotion", weightWord}, {"termination", weightWord},
			// Benefits and compensation
			{"salary", weightWord}, {"compensation", weightWord},
			{"benefits", weightWord}, {"vacation", weightWord},
			{"leave", weightWord}, {"pto", weightWord}, {"insurance", weightWord},
			{"retirement", weightWord}, {"401k", weightWord}, {"bonus", weightWord},
			// Training and development
			{"training", weightWord}, {"development", weightWord},
			{"learning", weightWord}, {"course", weightWord},
			{"certification", weightWord}, {"mentoring", weightWord},
			{"coaching", weightWord}, {"career", weightWord},
			// Employee relations
			{"manager", weightWord}, {"supervisor", weightWord},
			{"hierarchy", weightWord}, {"department", weightWord},
			{"role", weightWord}, {"position", weightWord}, {"job", weightWord},
			{"title", weightWord}, {"who reports to", weightPhrase},
		},
	},
	{
		Agent:   models.AgentAnalytics,
		Ceiling: defaultCeiling,
		Entries: []VocabEntry{
			// Mathematical operations
			{"calculate", weightWord}, {"compute", weightWord}, {"sum", weightWord},
			{"total", weightWord}, {"average", weightWord}, {"mean", weightWord},
			{"median", weightWord}, {"percentage", weightWord},
			{"percent", weightWord}, {"ratio", weightWord}, {"rate", weightWord},
			{"count", weightWord},
			// Financial terms
			{"payroll", weightWord}, {"budget", weightWord}, {"cost", weightWord},
			{"expense", weightWord}, {"revenue", weightWord}, {"profit", weightWord},
			{"loss", weightWord}, {"financial", weightWord},
			{"accounting", weightWord}, {"invoice", weightWord},
			{"payment", weightWord}, {"net pay", weightPhrase},
			// Data analysis
			{"analyze", weightWord}, {"analysis", weightWord}, {"metric", weightWord},
			{"metrics", weightWord}, {"statistics", weightWord}, {"stats", weightWord},
			{"data", weightWord}, {"dashboard", weightWord}, {"trend", weightWord},
			{"trends", weightWord}, {"forecast", weightWord},
			{"projection", weightWord}, {"comparison", weightWord},
			{"compare", weightWord},
			// Aggregations
			{"aggregate", weightWord}, {"summarize", weightWord},
			{"breakdown", weightWord}, {"distribution", weightWord},
			{"maximum", weightWord}, {"minimum", weightWord},
			{"highest", weightWord}, {"lowest", weightWord},
		},
	},
	{
		Agent:   models.AgentDocuments,
		Ceiling: defaultCeiling,
		Entries: []VocabEntry{
			// Document types
			{"policy", weightWord}, {"policies", weightWord},
			{"document", weightWord}, {"documents", weightWord},
			{"handbook", weightWord}, {"manual", weightWord},
			{"procedure", weightWord}, {"procedures", weightWord},
			{"guideline", weightWord}, {"guidelines", weightWord},
			{"protocol", weightWord}, {"regulation", weightWord},
			{"regulations", weightWord},
			// Document actions
			{"search", weightWord}, {"find", weightWord}, {"lookup", weightWord},
			{"look up", weightPhrase}, {"retrieve", weightWord},
			{"locate", weightWord}, {"reference", weightWord},
			{"consult", weightWord},
			// Document content
			{"rule", weightWord}, {"rules", weightWord},
			{"requirement", weightWord}, {"requirements", weightWord},
			{"compliance", weightWord}, {"code of conduct", weightPhrase},
			{"ethics", weightWord}, {"legal", weightWord},
			{"contract", weightWord}, {"agreement", weightWord},
			{"form", weightWord}, {"forms", weightWord},
			{"template", weightWord}, {"templates", weightWord},
			// Specific document areas
			{"hr policy", weightPhrase}, {"company policy", weightPhrase},
			{"employee handbook", weightPhrase}, {"safety", weightWord},
			{"security", weightWord}, {"privacy", weightWord},
			{"confidentiality", weightWord},
			{"intellectual property", weightPhrase},
		},
	},
}

// MaxScore returns the normalization ceiling for confidence calculation.
func (v Vocabulary) MaxScore() float64 {
	if v.Ceiling > 0 {
		return v.Ceiling
	}
	return defaultCeiling
}
