// Package router scores incoming messages against per-agent vocabularies and
// picks the specialized agent for the turn. Routing never fails: when no
// vocabulary clears the threshold the decision falls back to the general
// agent with the best sub-threshold confidence kept for observability.
package router

import (
	"regexp"
	"strings"

	"assistant-chatbot/internal/models"
)

// Router is a pure scorer over the static vocabulary tables. Safe for
// concurrent use; it holds no mutable state.
type Router struct {
	// Threshold is compared against the winning adjusted raw score. The
	// default of 1.0 means a single generic keyword is enough to route.
	Threshold float64
	// ContinuityBonus is added to the previous turn's agent when it has any
	// signal of its own, keeping follow-ups with the same specialist.
	ContinuityBonus float64

	vocabularies []Vocabulary
}

// New builds a Router over the default vocabularies.
func New(threshold, continuityBonus float64) *Router {
	return &Router{
		Threshold:       threshold,
		ContinuityBonus: continuityBonus,
		vocabularies:    Vocabularies,
	}
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Route decides which agent should answer the message. Pure function of the
// message, the conversation context, and the static vocabulary tables.
func (r *Router) Route(msg models.Message, ctx *models.ConversationContext) models.RoutingDecision {
	lowered := strings.ToLower(msg.Text)
	tokens := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(lowered, -1) {
		tokens[tok] = true
	}

	prevAgent := ctx.LastAgent()

	scores := make(map[models.AgentID]float64, len(r.vocabularies))
	ceilings := make(map[models.AgentID]float64, len(r.vocabularies))

	for _, vocab := range r.vocabularies {
		raw := scoreVocabulary(vocab, lowered, tokens)
		if raw > 0 && vocab.Agent == prevAgent {
			raw += r.ContinuityBonus
		}
		scores[vocab.Agent] = raw
		ceilings[vocab.Agent] = vocab.MaxScore()
	}

	// Highest adjusted score wins; ties resolve by the fixed priority order
	// of SpecializedAgents, so the outcome is deterministic.
	var best models.AgentID
	bestScore := -1.0
	for _, agent := range models.SpecializedAgents {
		if scores[agent] > bestScore {
			best = agent
			bestScore = scores[agent]
		}
	}

	confidence := 0.0
	if bestScore > 0 {
		confidence = bestScore / ceilings[best]
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	if bestScore < r.Threshold {
		return models.RoutingDecision{
			Agent:        models.AgentGeneral,
			Confidence:   confidence,
			Scores:       scores,
			UsedFallback: true,
		}
	}

	return models.RoutingDecision{
		Agent:      best,
		Confidence: confidence,
		Scores:     scores,
	}
}

// scoreVocabulary sums entry weights: whole-token matches for single words,
// substring matches for multi-word phrases.
func scoreVocabulary(vocab Vocabulary, lowered string, tokens map[string]bool) float64 {
	var score float64
	for _, entry := range vocab.Entries {
		if strings.ContainsRune(entry.Phrase, ' ') {
			if strings.Contains(lowered, entry.Phrase) {
				score += entry.Weight
			}
		} else if tokens[entry.Phrase] {
			score += entry.Weight
		}
	}
	return score
}
