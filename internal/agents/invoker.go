// Package agents implements the agent invocation collaborator: the only
// suspension point in a chat turn. The invoker owns retry and backoff; the
// orchestrator never retries.
package agents

import (
	"context"

	"assistant-chatbot/internal/models"
)

// Invoker dispatches a message to a specialized agent and returns its raw
// output. Implementations must respect ctx cancellation and may retry
// internally; a timed-out call is reported as an error, never as a partial
// result.
type Invoker interface {
	Invoke(ctx context.Context, agent models.AgentID, msg models.Message, convCtx *models.ConversationContext) (models.RawAgentOutput, error)
}
