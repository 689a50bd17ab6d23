package planner

import "errors"

var (
	// ErrInvalidRequest means the caller's request failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrGenerationUnavailable covers transport, HTTP and timeout failures.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	// ErrSchemaViolation means the model answered without the forced tool call.
	ErrSchemaViolation = errors.New("model did not call the plan function")
	// ErrMalformedGeneration means the tool-call arguments were not valid JSON.
	ErrMalformedGeneration = errors.New("model returned malformed plan arguments")
	// ErrInvalidAIResponse means the arguments parsed but were not an object.
	ErrInvalidAIResponse = errors.New("model response is not a plan object")
)

// Wire codes carried in failure payloads.
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	CodeSchemaViolation       = "SCHEMA_VIOLATION"
	CodeMalformedGeneration   = "MALFORMED_GENERATION"
	CodeInvalidAIResponse     = "INVALID_AI_RESPONSE"
	CodeInternal              = "INTERNAL_ERROR"
)

// ErrorCode maps a pipeline error to its wire code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrInvalidAIResponse):
		return CodeInvalidAIResponse
	case errors.Is(err, ErrMalformedGeneration):
		return CodeMalformedGeneration
	case errors.Is(err, ErrSchemaViolation):
		return CodeSchemaViolation
	case errors.Is(err, ErrGenerationUnavailable):
		return CodeGenerationUnavailable
	default:
		return CodeInternal
	}
}
