package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elecmate/maintenance-planner/internal/openai"
	"github.com/sirupsen/logrus"
)

// FunctionCaller runs one forced tool-calling completion.
type FunctionCaller interface {
	CallFunction(ctx context.Context, messages []openai.Message, tool openai.FunctionDefinition, temperature float64, maxTokens int) (*openai.ToolResult, error)
}

type GeneratorOptions struct {
	Timeout          time.Duration
	RepromptAttempts int
	MaxTokens        int
	Temperature      float64
}

func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Timeout:          210 * time.Second,
		RepromptAttempts: 1,
		MaxTokens:        16000,
		Temperature:      0.3,
	}
}

// Generation is the raw structured answer and how it was obtained.
type Generation struct {
	Arguments  json.RawMessage
	Model      string
	TokensUsed int
	Attempts   int
	Duration   time.Duration
}

type Generator struct {
	caller FunctionCaller
	opts   GeneratorOptions
	logger *logrus.Logger
}

func NewGenerator(caller FunctionCaller, opts GeneratorOptions, logger *logrus.Logger) *Generator {
	return &Generator{caller: caller, opts: opts, logger: logger}
}

// Generate calls the model with the plan function forced. A missing tool
// call or unparseable arguments earn one stricter re-prompt per configured
// attempt; transport failures are returned at once since the client has
// already retried them.
func (g *Generator) Generate(ctx context.Context, prompt Prompt) (*Generation, error) {
	start := time.Now()
	tool := openai.FunctionDefinition{
		Name:        PlanFunctionName,
		Description: "Provide a structured electrical maintenance plan",
		Parameters:  prompt.Schema,
	}

	reprompts := g.opts.RepromptAttempts
	if reprompts < 0 {
		reprompts = 0
	}

	var lastErr error
	current := prompt
	for attempt := 0; attempt <= reprompts; attempt++ {
		if attempt > 0 {
			current = prompt.Stricter()
			g.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"reason":  lastErr.Error(),
			}).Warn("Re-prompting model with stricter instructions")
		}

		result, err := g.call(ctx, current, tool)
		if err != nil {
			if errors.Is(err, openai.ErrNoToolCall) {
				lastErr = fmt.Errorf("%w: %v", ErrSchemaViolation, err)
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
		}

		var probe interface{}
		if err := json.Unmarshal(result.Arguments, &probe); err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
			continue
		}

		g.logger.WithFields(logrus.Fields{
			"model":       result.Model,
			"tokens_used": result.TokensUsed,
			"attempts":    attempt + 1,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Plan generated")

		return &Generation{
			Arguments:  result.Arguments,
			Model:      result.Model,
			TokensUsed: result.TokensUsed,
			Attempts:   attempt + 1,
			Duration:   time.Since(start),
		}, nil
	}

	return nil, lastErr
}

func (g *Generator) call(ctx context.Context, prompt Prompt, tool openai.FunctionDefinition) (*openai.ToolResult, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	messages := []openai.Message{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}
	return g.caller.CallFunction(ctx, messages, tool, g.opts.Temperature, g.opts.MaxTokens)
}
