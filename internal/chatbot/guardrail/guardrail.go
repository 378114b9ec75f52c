// Package guardrail screens incoming messages before routing. Violations are
// answered with a fixed intervention message inside a valid structured
// answer; the turn never reaches an agent.
package guardrail

import (
	"strings"
	"unicode"
)

// Violation classifies why a message was intercepted.
type Violation string

const (
	ViolationNone             Violation = ""
	ViolationFinancialAdvice  Violation = "financial_advice"
	ViolationNegativeEmployee Violation = "negative_employee_comment"
	ViolationOutOfScope       Violation = "out_of_scope"
)

// Result is the outcome of a guardrail check.
type Result struct {
	Safe      bool
	Violation Violation
	Reason    string
}

// InterventionMessage returns the user-facing text for a violation.
func (r Result) InterventionMessage() string {
	switch r.Violation {
	case ViolationFinancialAdvice:
		return "I can't provide financial or investment advice. For questions about your compensation or benefits, I'm happy to help."
	case ViolationNegativeEmployee:
		return "I can't engage with negative comments about colleagues. If you have a workplace concern, please raise it with HR through the proper channels."
	case ViolationOutOfScope:
		return "I can only help with questions about this organization: people, analytics, and company documents."
	default:
		return "I can't assist with that request."
	}
}

var financialKeywords = []string{
	"invest", "investment", "stock", "stocks", "trading", "trade",
	"portfolio", "mutual fund", "etf", "bond", "bonds", "dividend",
	"crypto", "cryptocurrency", "bitcoin", "forex",
	"financial advice", "should i buy", "should i sell",
	"ira", "retirement fund", "hedge fund", "asset allocation",
}

var negativePatterns = []string{
	"bad employee", "worst employee", "terrible", "incompetent",
	"useless", "lazy", "stupid", "idiot", "hate",
	"get rid of", "should be fired", "doesn't deserve", "awful",
	"pathetic", "worthless", "garbage", "trash",
}

var employeeWords = []string{
	"employee", "staff", "worker", "person", "people", "team member",
}

var organizationTopics = []string{
	"employee", "staff", "team", "department", "organization",
	"company", "hr", "human resources", "skill", "skills",
	"report", "analytics", "data", "document", "policy",
	"procedure", "guideline", "structure", "hierarchy", "manager",
	"who reports to", "org chart", "capabilities", "what can you do",
	"salary", "payroll", "vacation", "benefits",
}

var greetingPatterns = []string{
	"hello", "hi", "hey", "thanks", "thank you",
	"what can you do", "help", "capabilities",
	"how are you", "goodbye", "bye",
}

var outOfScopePatterns = []string{
	"weather", "sports", "recipe", "movie", "music", "game",
	"celebrity", "news", "politics", "religion", "joke",
	"story", "poem", "song", "translate", "definition of",
	"capital of", "population of", "history of", "who invented",
	"super bowl", "world cup", "olympics", "championship",
	"make a cake", "cook", "bake",
}

// Guardrail applies the organization usage rules. Pure and table-driven;
// individual checks can be disabled for tests or relaxed deployments.
type Guardrail struct {
	CheckFinancial       bool
	CheckNegativeComment bool
	CheckScope           bool
}

// New returns a Guardrail with every check enabled.
func New() *Guardrail {
	return &Guardrail{
		CheckFinancial:       true,
		CheckNegativeComment: true,
		CheckScope:           true,
	}
}

// Check screens a message. It never fails; an unsafe result carries the
// violation type and reason.
func (g *Guardrail) Check(message string) Result {
	lowered := strings.ToLower(message)

	if g.CheckFinancial && containsAny(lowered, financialKeywords) {
		return Result{
			Violation: ViolationFinancialAdvice,
			Reason:    "message contains financial advice keywords",
		}
	}

	if g.CheckNegativeComment && hasNegativeEmployeeComment(message, lowered) {
		return Result{
			Violation: ViolationNegativeEmployee,
			Reason:    "message contains negative comments about a colleague",
		}
	}

	if g.CheckScope && !isOrganizationRelevant(lowered) {
		return Result{
			Violation: ViolationOutOfScope,
			Reason:    "question is not organization-relevant",
		}
	}

	return Result{Safe: true}
}

// hasNegativeEmployeeComment looks for negative language aimed at employees,
// either via an explicit employee word or a capitalized name ("Sarah is
// lazy").
func hasNegativeEmployeeComment(original, lowered string) bool {
	mentionsEmployee := containsAny(lowered, employeeWords)

	hasNamePattern := false
	for _, word := range strings.Fields(original) {
		runes := []rune(word)
		if len(runes) > 1 && unicode.IsUpper(runes[0]) && isAlpha(word) {
			hasNamePattern = true
			break
		}
	}

	if mentionsEmployee || hasNamePattern {
		return containsAny(lowered, negativePatterns)
	}
	return false
}

// isOrganizationRelevant permits greetings, organization topics, and anything
// it cannot classify; only recognizably unrelated topics are blocked, which
// keeps false positives rare.
func isOrganizationRelevant(lowered string) bool {
	if len(strings.Fields(lowered)) <= 5 && containsAny(lowered, greetingPatterns) {
		return true
	}
	if containsAny(lowered, organizationTopics) {
		return true
	}
	if containsAny(lowered, outOfScopePatterns) {
		return false
	}
	return true
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
