// Package validation wraps JSON Schema checks for payloads crossing the
// service boundary.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ChatRequestSchema validates the transport-level chat request body.
const ChatRequestSchema = `{
	"type": "object",
	"properties": {
		"message":    {"type": "string", "minLength": 1, "maxLength": 8000},
		"session_id": {"type": "string", "maxLength": 128},
		"user_id":    {"type": "string", "maxLength": 128}
	},
	"required": ["message"],
	"additionalProperties": false
}`

// AgentRegistrySchema validates the declarative agent registry file.
const AgentRegistrySchema = `{
	"type": "object",
	"properties": {
		"version":     {"type": "string"},
		"lastUpdated": {"type": "string"},
		"agents": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id":          {"type": "string", "enum": ["hr", "analytics", "documents", "general"]},
					"displayName": {"type": "string"},
					"description": {"type": "string"},
					"endpoint":    {"type": "string", "pattern": "^https?://"},
					"timeout":     {"type": "integer", "minimum": 0},
					"maxRetries":  {"type": "integer", "minimum": 0}
				},
				"required": ["id", "endpoint"]
			}
		}
	},
	"required": ["agents"]
}`

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// ValidateJSON checks a raw JSON document against a schema string.
func ValidateJSON(document []byte, schema string) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}
