package models

import "time"

// AgentID identifies a specialized agent. The set is closed: adding an agent
// means adding a vocabulary and a registry entry, not new control flow.
type AgentID string

const (
	AgentHR        AgentID = "hr"
	AgentAnalytics AgentID = "analytics"
	AgentDocuments AgentID = "documents"
	AgentGeneral   AgentID = "general"
)

// SpecializedAgents lists the routable agents in tie-break priority order.
// AgentGeneral is the universal fallback and is never scored.
var SpecializedAgents = []AgentID{AgentHR, AgentAnalytics, AgentDocuments}

// IsValid reports whether id is one of the known agents.
func (id AgentID) IsValid() bool {
	switch id {
	case AgentHR, AgentAnalytics, AgentDocuments, AgentGeneral:
		return true
	}
	return false
}

// Message is a single user utterance within a session.
type Message struct {
	Text      string `json:"text"`
	TurnIndex int    `json:"turnIndex"`
}

// Turn records one completed exchange: the user message and the agent that
// answered it.
type Turn struct {
	Message Message `json:"message"`
	Agent   AgentID `json:"agent"`
}

// ConversationContext is the ordered history of past turns in a session.
// It is append-only; past turns are never rewritten.
type ConversationContext struct {
	Turns []Turn `json:"turns"`
}

// LastAgent returns the agent that handled the most recent turn, or
// AgentGeneral when the conversation has no history yet.
func (c *ConversationContext) LastAgent() AgentID {
	if c == nil || len(c.Turns) == 0 {
		return AgentGeneral
	}
	return c.Turns[len(c.Turns)-1].Agent
}

// Append adds a completed turn, trimming the window to maxTurns so the
// history stays bounded while preserving the continuity-bonus behavior.
func (c *ConversationContext) Append(turn Turn, maxTurns int) {
	c.Turns = append(c.Turns, turn)
	if maxTurns > 0 && len(c.Turns) > maxTurns {
		c.Turns = c.Turns[len(c.Turns)-maxTurns:]
	}
}

// RoutingDecision is the Router's verdict for a single message.
type RoutingDecision struct {
	Agent        AgentID             `json:"agent"`
	Confidence   float64             `json:"confidence"`
	Scores       map[AgentID]float64 `json:"scores"`
	UsedFallback bool                `json:"usedFallback"`
}

// RawAgentOutput is what an agent invocation yields before recovery. Value is
// set when the upstream already returned a decoded structure; otherwise Text
// holds the opaque model output. Envelope carries outer metadata supplied
// alongside the text.
type RawAgentOutput struct {
	Value    interface{}
	Text     string
	Envelope Envelope
}

// Envelope is the outer response wrapper from an agent service: metadata not
// embedded in the model text itself.
type Envelope struct {
	AgentName  string   `json:"agent"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Source is a citation attached to an answer. Bare filename strings from
// upstream are promoted to this shape with the string as both Title and
// DocumentRef and "#" as the URL.
type Source struct {
	Title       string `json:"title"`
	DocumentRef string `json:"document_ref"`
	URL         string `json:"url"`
	Breadcrumb  string `json:"breadcrumb,omitempty"`
}

// StructuredAnswer is the canonical answer shape every caller receives.
// AnswerMarkdown is always present; on total failure it degrades to an empty
// string rather than a missing field.
type StructuredAnswer struct {
	AnswerMarkdown    string   `json:"answer_markdown"`
	ShortAnswer       string   `json:"short_answer,omitempty"`
	Sources           []Source `json:"sources"`
	FollowUpQuestions []string `json:"follow_up_questions"`
	UserNotices       []string `json:"user_notices"`
	RelatedTopics     []string `json:"related_topics"`
}

// ChatResponse is the transport-level reply for one turn.
type ChatResponse struct {
	Answer     StructuredAnswer `json:"answer"`
	SessionID  string           `json:"sessionId"`
	AgentUsed  AgentID          `json:"agentUsed"`
	Confidence float64          `json:"confidence"`
	Timestamp  time.Time        `json:"timestamp"`
}
