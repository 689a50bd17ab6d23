package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCaller struct {
	responses []stubResponse
	calls     int
	systems   []string
	tools     []openai.FunctionDefinition
}

type stubResponse struct {
	arguments string
	err       error
	wait      time.Duration
}

func (s *stubCaller) CallFunction(ctx context.Context, messages []openai.Message, tool openai.FunctionDefinition, temperature float64, maxTokens int) (*openai.ToolResult, error) {
	r := s.responses[s.calls]
	s.calls++
	s.systems = append(s.systems, messages[0].Content)
	s.tools = append(s.tools, tool)

	if r.wait > 0 {
		select {
		case <-time.After(r.wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &openai.ToolResult{Name: tool.Name, Arguments: json.RawMessage(r.arguments), Model: "gpt-test", TokensUsed: 100}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testPrompt() Prompt {
	return BuildPrompt(&models.MaintenanceRequest{Query: "consumer unit"}, "context")
}

func TestGenerate_Success(t *testing.T) {
	caller := &stubCaller{responses: []stubResponse{{arguments: `{"summary":"ok"}`}}}

	gen, err := NewGenerator(caller, DefaultGeneratorOptions(), quietLogger()).Generate(context.Background(), testPrompt())
	require.NoError(t, err)

	assert.JSONEq(t, `{"summary":"ok"}`, string(gen.Arguments))
	assert.Equal(t, 1, gen.Attempts)
	assert.Equal(t, "gpt-test", gen.Model)
	assert.Equal(t, PlanFunctionName, caller.tools[0].Name)
	assert.IsType(t, &Schema{}, caller.tools[0].Parameters)
}

func TestGenerate_RepromptsAfterNoToolCall(t *testing.T) {
	caller := &stubCaller{responses: []stubResponse{
		{err: openai.ErrNoToolCall},
		{arguments: `{"summary":"second"}`},
	}}

	gen, err := NewGenerator(caller, DefaultGeneratorOptions(), quietLogger()).Generate(context.Background(), testPrompt())
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Attempts)
	assert.NotContains(t, caller.systems[0], "previous answer was rejected")
	assert.Contains(t, caller.systems[1], "previous answer was rejected")
}

func TestGenerate_SchemaViolationAfterReprompt(t *testing.T) {
	caller := &stubCaller{responses: []stubResponse{
		{err: openai.ErrNoToolCall},
		{err: openai.ErrNoToolCall},
	}}

	_, err := NewGenerator(caller, DefaultGeneratorOptions(), quietLogger()).Generate(context.Background(), testPrompt())

	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.Equal(t, CodeSchemaViolation, ErrorCode(err))
	assert.Equal(t, 2, caller.calls)
}

func TestGenerate_MalformedAfterReprompt(t *testing.T) {
	caller := &stubCaller{responses: []stubResponse{
		{arguments: `{"summary": "trunc`},
		{arguments: `not json`},
	}}

	_, err := NewGenerator(caller, DefaultGeneratorOptions(), quietLogger()).Generate(context.Background(), testPrompt())

	assert.ErrorIs(t, err, ErrMalformedGeneration)
	assert.Equal(t, CodeMalformedGeneration, ErrorCode(err))
}

func TestGenerate_NoRepromptWhenDisabled(t *testing.T) {
	opts := DefaultGeneratorOptions()
	opts.RepromptAttempts = 0
	caller := &stubCaller{responses: []stubResponse{{err: openai.ErrNoToolCall}}}

	_, err := NewGenerator(caller, opts, quietLogger()).Generate(context.Background(), testPrompt())

	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.Equal(t, 1, caller.calls)
}

func TestGenerate_NegativeRepromptsStillCallsOnce(t *testing.T) {
	opts := DefaultGeneratorOptions()
	opts.RepromptAttempts = -1

	caller := &stubCaller{responses: []stubResponse{{arguments: `{"summary":"ok"}`}}}
	gen, err := NewGenerator(caller, opts, quietLogger()).Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, 1, caller.calls)

	caller = &stubCaller{responses: []stubResponse{{arguments: `not json`}}}
	gen, err = NewGenerator(caller, opts, quietLogger()).Generate(context.Background(), testPrompt())
	assert.Nil(t, gen)
	assert.ErrorIs(t, err, ErrMalformedGeneration)
	assert.Equal(t, 1, caller.calls)
}

func TestGenerate_TransportFailureIsNotReprompted(t *testing.T) {
	caller := &stubCaller{responses: []stubResponse{{err: &openai.StatusError{StatusCode: 503, Body: "overloaded"}}}}

	_, err := NewGenerator(caller, DefaultGeneratorOptions(), quietLogger()).Generate(context.Background(), testPrompt())

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, CodeGenerationUnavailable, ErrorCode(err))
	assert.Equal(t, 1, caller.calls)
}

func TestGenerate_Timeout(t *testing.T) {
	opts := DefaultGeneratorOptions()
	opts.Timeout = 20 * time.Millisecond
	caller := &stubCaller{responses: []stubResponse{{arguments: `{}`, wait: time.Second}}}

	_, err := NewGenerator(caller, opts, quietLogger()).Generate(context.Background(), testPrompt())

	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.True(t, strings.Contains(err.Error(), "deadline"))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))
	assert.Equal(t, CodeInvalidAIResponse, ErrorCode(errors.Join(ErrInvalidAIResponse)))
	assert.Equal(t, CodeInvalidRequest, ErrorCode(fmt.Errorf("%w: missing query", ErrInvalidRequest)))
}

func TestBuildPrompt(t *testing.T) {
	age := models.Years(12)
	req := &models.MaintenanceRequest{
		EquipmentType: "domestic consumer unit",
		AgeYears:      &age,
		BuildingType:  "domestic",
		DetailLevel:   "full",
	}

	p := BuildPrompt(req, "=== PRACTICAL WORK INTELLIGENCE ===")

	assert.Contains(t, p.System, PlanFunctionName)
	assert.Contains(t, p.System, "at least 2-4 tasks")
	assert.Contains(t, p.System, "Never prefix a list item with a field name")
	assert.Contains(t, p.User, "- Equipment type: domestic consumer unit")
	assert.Contains(t, p.User, "- Installation age: 12 years")
	assert.Contains(t, p.User, "- Location: Not specified")
	assert.Contains(t, p.User, "- Criticality: Not specified")
	assert.Contains(t, p.User, "DETAIL LEVEL: full")
	assert.Contains(t, p.User, "=== PRACTICAL WORK INTELLIGENCE ===")
	assert.True(t, strings.HasSuffix(p.User, "follow the schema exactly."))
	require.NotNil(t, p.Schema)
}

func TestPlanSchema(t *testing.T) {
	schema := PlanSchema()

	assert.Equal(t, "object", schema.Type)
	for _, section := range ArraySections {
		prop, ok := schema.Properties[section]
		require.True(t, ok, section)
		assert.Equal(t, "array", prop.Type, section)
	}
	schedule := schema.Properties[SectionMaintenanceSchedule]
	assert.Equal(t, 2, schedule.MinItems)
	assert.Equal(t, Priorities, schedule.Items.Properties["priority"].Enum)
	assert.Contains(t, schema.Required, SectionMaintenanceSchedule)

	b, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"minItems":2`)
}
