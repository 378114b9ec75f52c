package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	stderrors "assistant-chatbot/internal/common/errors"
	commonhttp "assistant-chatbot/internal/common/http"
	"assistant-chatbot/internal/common/logger"
	"assistant-chatbot/internal/common/metrics"
	"assistant-chatbot/internal/models"
	"assistant-chatbot/pkg/registry"
)

// HTTPInvoker calls agent services over their query endpoints. Each agent's
// endpoint, timeout, and retry budget come from the registry; unregistered
// agents fail fast with AGENT_UNAVAILABLE.
type HTTPInvoker struct {
	registry       *registry.AgentRegistry
	client         *commonhttp.Client
	logger         logger.Logger
	defaultTimeout time.Duration
	maxRetries     int
}

func NewHTTPInvoker(reg *registry.AgentRegistry, defaultTimeout time.Duration, maxRetries int, log logger.Logger) *HTTPInvoker {
	return &HTTPInvoker{
		registry: reg,
		// No client-level timeout; deadlines come from the per-call context
		// so a caller-supplied budget is never silently shortened.
		client:         commonhttp.NewClient(0),
		logger:         log.With(map[string]interface{}{"component": "agent-invoker"}),
		defaultTimeout: defaultTimeout,
		maxRetries:     maxRetries,
	}
}

// queryRequest is the wire shape agents accept.
type queryRequest struct {
	Message string         `json:"message"`
	Context []contextEntry `json:"context,omitempty"`
}

type contextEntry struct {
	Agent string `json:"agent"`
	Text  string `json:"text"`
}

// queryResponse is the agent service envelope: the model text plus outer
// metadata. The text itself frequently contains a further serialized payload;
// unpacking that is the recovery pipeline's job, not ours.
type queryResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

func (inv *HTTPInvoker) Invoke(ctx context.Context, agent models.AgentID, msg models.Message, convCtx *models.ConversationContext) (models.RawAgentOutput, error) {
	entry := inv.registry.Find(string(agent))
	if entry == nil {
		return models.RawAgentOutput{}, stderrors.NewAgentUnavailableError(string(agent))
	}

	timeout := inv.defaultTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Millisecond
	}
	retries := inv.maxRetries
	if entry.MaxRetries > 0 {
		retries = entry.MaxRetries
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(queryRequest{
		Message: msg.Text,
		Context: recentContext(convCtx, 6),
	})
	if err != nil {
		return models.RawAgentOutput{}, stderrors.NewAgentInvocationFailedError(string(agent), err)
	}

	started := time.Now()
	resp, err := inv.post(ctx, entry.Endpoint+"/query", body, retries)
	metrics.AgentInvocationDuration.WithLabelValues(string(agent)).Observe(time.Since(started).Seconds())

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.RawAgentOutput{}, stderrors.NewAgentTimeoutError(string(agent))
		}
		return models.RawAgentOutput{}, stderrors.NewAgentInvocationFailedError(string(agent), err)
	}
	defer resp.Body.Close()

	var envelope queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return models.RawAgentOutput{}, stderrors.NewAgentInvocationFailedError(string(agent), fmt.Errorf("decode response: %w", err))
	}

	inv.logger.Info("agent responded", map[string]interface{}{
		"agent":       string(agent),
		"confidence":  envelope.Confidence,
		"sourceCount": len(envelope.Sources),
	})

	return models.RawAgentOutput{
		Text: envelope.Text,
		Envelope: models.Envelope{
			AgentName:  string(agent),
			Confidence: envelope.Confidence,
			Sources:    envelope.Sources,
		},
	}, nil
}

// post sends the request with exponential backoff on transport errors and
// retryable status codes (5xx and 429).
func (inv *HTTPInvoker) post(ctx context.Context, url string, body []byte, maxRetries int) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := inv.client.DoWithContext(ctx, req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)

		if !retryableStatus(resp.StatusCode) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// recentContext flattens the tail of the conversation for the agent request.
func recentContext(convCtx *models.ConversationContext, maxTurns int) []contextEntry {
	if convCtx == nil || len(convCtx.Turns) == 0 {
		return nil
	}
	turns := convCtx.Turns
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	entries := make([]contextEntry, 0, len(turns))
	for _, turn := range turns {
		entries = append(entries, contextEntry{
			Agent: string(turn.Agent),
			Text:  turn.Message.Text,
		})
	}
	return entries
}
