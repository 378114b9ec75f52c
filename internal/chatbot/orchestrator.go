// Package chatbot ties the turn pipeline together: guardrail, routing, agent
// invocation, structured-answer recovery, and session bookkeeping.
package chatbot

import (
	"context"
	"strconv"
	"sync"
	"time"

	"assistant-chatbot/internal/agents"
	"assistant-chatbot/internal/chatbot/guardrail"
	"assistant-chatbot/internal/chatbot/recovery"
	"assistant-chatbot/internal/chatbot/router"
	"assistant-chatbot/internal/common/config"
	stderrors "assistant-chatbot/internal/common/errors"
	"assistant-chatbot/internal/common/logger"
	"assistant-chatbot/internal/common/metrics"
	"assistant-chatbot/internal/common/observability"
	"assistant-chatbot/internal/models"
	"assistant-chatbot/internal/session"
)

// Orchestrator processes chat turns. Turns within one session run strictly
// serialized; turns across sessions run concurrently.
type Orchestrator struct {
	router    *router.Router
	guardrail *guardrail.Guardrail
	invoker   agents.Invoker
	sessions  *session.Manager
	obs       *observability.Observability
	logger    logger.Logger

	turnTimeout   time.Duration
	failureNotice string

	mu           sync.Mutex
	sessionLocks map[string]*sessionLock
}

// sessionLock serializes turns within one session. Entries are reference
// counted so the lock map does not grow with every conversation the process
// has ever seen.
type sessionLock struct {
	sync.Mutex
	refs int
}

// New builds an Orchestrator from its collaborators. obs may be nil when
// OpenTelemetry export is disabled.
func New(cfg config.ChatbotConfig, invoker agents.Invoker, sessions *session.Manager, obs *observability.Observability, log logger.Logger) *Orchestrator {
	var guard *guardrail.Guardrail
	if cfg.EnableGuardrails {
		guard = guardrail.New()
	}
	return &Orchestrator{
		router:        router.New(cfg.RouteThreshold, cfg.ContinuityBonus),
		guardrail:     guard,
		invoker:       invoker,
		sessions:      sessions,
		obs:           obs,
		logger:        log.With(map[string]interface{}{"component": "orchestrator"}),
		turnTimeout:   cfg.TurnTimeoutDuration(),
		failureNotice: cfg.FailureNoticeText,
		sessionLocks:  make(map[string]*sessionLock),
	}
}

// HandleTurn processes one user message end to end and returns a
// ChatResponse. It never returns a recovery error: agent failures degrade to
// a notice-bearing answer, and only session storage problems surface as
// errors.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, userID string, text string) (*models.ChatResponse, error) {
	start := time.Now()

	lock := o.acquireSessionLock(sessionID)
	defer o.releaseSessionLock(sessionID, lock)

	sess, err := o.sessions.GetOrCreate(sessionID, userID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{Text: text, TurnIndex: sess.NextTurnIndex()}

	log := o.logger.With(map[string]interface{}{
		"sessionId": sess.ID,
		"turnIndex": msg.TurnIndex,
	})

	if o.guardrail != nil {
		if result := o.guardrail.Check(text); !result.Safe {
			metrics.GuardrailInterceptions.WithLabelValues(string(result.Violation)).Inc()
			log.Warn("message intercepted by guardrail", map[string]interface{}{
				"violation": string(result.Violation),
				"reason":    result.Reason,
			})
			answer := interventionAnswer(result)
			// Intercepted turns are not appended to the context: they never
			// reached an agent, so they must not influence continuity.
			o.recordTurn(ctx, string(models.AgentGeneral), "blocked", time.Since(start))
			return o.response(sess, answer, models.AgentGeneral, 0), nil
		}
	}

	decision := o.router.Route(msg, &sess.Context)
	metrics.RoutingDecisions.WithLabelValues(string(decision.Agent), strconv.FormatBool(decision.UsedFallback)).Inc()
	log.Debug("routing decision", map[string]interface{}{
		"agent":        string(decision.Agent),
		"confidence":   decision.Confidence,
		"usedFallback": decision.UsedFallback,
	})

	turnCtx := ctx
	if o.turnTimeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, o.turnTimeout)
		defer cancel()
	}

	raw, invokeErr := o.invoker.Invoke(turnCtx, decision.Agent, msg, &sess.Context)
	if invokeErr != nil {
		// Anything that is not an invocation failure is a bug in the
		// invoker, not a degraded turn; let it surface.
		if !stderrors.IsInvocationError(invokeErr) {
			return nil, invokeErr
		}
		stdErr := stderrors.AsStandard(invokeErr)
		log.WithError(invokeErr).Error("agent invocation failed", map[string]interface{}{
			"agent": string(decision.Agent),
			"code":  string(stdErr.Code),
		})
		answer := o.failureAnswer(invokeErr)
		// The failed turn still lands in the context so the user can rephrase
		// with continuity intact, attributed to the routed agent.
		if err := o.sessions.AppendTurn(sess, models.Turn{Message: msg, Agent: decision.Agent}); err != nil {
			return nil, err
		}
		o.recordTurn(ctx, string(decision.Agent), "failure", time.Since(start))
		return o.response(sess, answer, decision.Agent, decision.Confidence), nil
	}

	answer, trace := recovery.Recover(raw)
	if trace.Extract != "" {
		metrics.RecoveryStageOutcomes.WithLabelValues("extract", string(trace.Extract)).Inc()
	}
	metrics.RecoveryStageOutcomes.WithLabelValues("parse", strconv.FormatBool(trace.ParseOK)).Inc()
	metrics.RecoveryStageOutcomes.WithLabelValues("normalize", string(trace.Normalize)).Inc()
	log.Debug("recovery complete", map[string]interface{}{
		"extract":   string(trace.Extract),
		"parseOk":   trace.ParseOK,
		"normalize": string(trace.Normalize),
	})
	if !trace.ParseOK {
		code := stderrors.ErrCodeParseFailed
		if trace.Extract == recovery.ExtractNone {
			code = stderrors.ErrCodeExtractionFailed
		}
		log.Warn("agent output degraded", map[string]interface{}{
			"agent": string(decision.Agent),
			"code":  string(code),
		})
	}

	if err := o.sessions.AppendTurn(sess, models.Turn{Message: msg, Agent: decision.Agent}); err != nil {
		return nil, err
	}

	o.recordTurn(ctx, string(decision.Agent), "success", time.Since(start))
	return o.response(sess, answer, decision.Agent, decision.Confidence), nil
}

// acquireSessionLock locks the mutex serializing turns for one session,
// creating the entry on first use. An empty id means a fresh session, which
// cannot race with anything yet, but it still shares one lock so lookups stay
// uniform.
func (o *Orchestrator) acquireSessionLock(sessionID string) *sessionLock {
	o.mu.Lock()
	lock, ok := o.sessionLocks[sessionID]
	if !ok {
		lock = &sessionLock{}
		o.sessionLocks[sessionID] = lock
	}
	lock.refs++
	o.mu.Unlock()

	lock.Lock()
	return lock
}

// releaseSessionLock unlocks the session mutex and evicts the map entry once
// no turn holds or waits on it.
func (o *Orchestrator) releaseSessionLock(sessionID string, lock *sessionLock) {
	lock.Unlock()

	o.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.sessionLocks, sessionID)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) recordTurn(ctx context.Context, agent string, status string, elapsed time.Duration) {
	metrics.ChatTurnsTotal.WithLabelValues(agent, status).Inc()
	if o.obs != nil {
		o.obs.RecordTurnProcessed(ctx, agent, status)
		o.obs.RecordTurnDuration(ctx, elapsed, agent)
	}
}

func (o *Orchestrator) response(sess *models.Session, answer models.StructuredAnswer, agent models.AgentID, confidence float64) *models.ChatResponse {
	return &models.ChatResponse{
		Answer:     answer,
		SessionID:  sess.ID,
		AgentUsed:  agent,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	}
}

// failureAnswer wraps an invocation error into a valid structured answer with
// a machine-readable notice tag. The caller never sees the raw error.
func (o *Orchestrator) failureAnswer(err error) models.StructuredAnswer {
	text := o.failureNotice
	if text == "" {
		text = "I couldn't reach the service handling your question. Please try again in a moment."
	}
	return models.StructuredAnswer{
		AnswerMarkdown:    text,
		Sources:           []models.Source{},
		FollowUpQuestions: []string{},
		UserNotices:       []string{stderrors.NoticeTag(err)},
		RelatedTopics:     []string{},
	}
}

// interventionAnswer wraps a guardrail interception the same way.
func interventionAnswer(result guardrail.Result) models.StructuredAnswer {
	return models.StructuredAnswer{
		AnswerMarkdown:    result.InterventionMessage(),
		Sources:           []models.Source{},
		FollowUpQuestions: []string{},
		UserNotices:       []string{"guardrail:" + string(result.Violation)},
		RelatedTopics:     []string{},
	}
}
