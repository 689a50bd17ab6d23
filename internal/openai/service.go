package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// ErrNoToolCall means the model answered without calling the forced function.
var ErrNoToolCall = errors.New("openai: response contained no tool call")

// maxEmbeddingInput mirrors the character cap applied before embedding.
const maxEmbeddingInput = 8000

type Service struct {
	client         *Client
	model          string
	embeddingModel string
	logger         *logrus.Logger
}

func NewService(client *Client, model, embeddingModel string, logger *logrus.Logger) *Service {
	return &Service{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		logger:         logger,
	}
}

func (s *Service) Model() string          { return s.model }
func (s *Service) EmbeddingModel() string { return s.embeddingModel }

// Embed returns the dense embedding of text.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbeddingInput {
		end := maxEmbeddingInput
		for end > 0 && !utf8.RuneStart(text[end]) {
			end--
		}
		text = text[:end]
	}

	resp, err := s.client.CreateEmbeddings(ctx, EmbeddingRequest{
		Model: s.embeddingModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return resp.Data[0].Embedding, nil
}

// CallFunction runs a completion that must answer by calling tool, and
// returns that call's raw arguments.
func (s *Service) CallFunction(ctx context.Context, messages []Message, tool FunctionDefinition, temperature float64, maxTokens int) (*ToolResult, error) {
	req := ChatCompletionRequest{
		Model:      s.model,
		Messages:   messages,
		Tools:      []Tool{{Type: "function", Function: tool}},
		ToolChoice: ForceFunction(tool.Name),
		MaxTokens:  maxTokens,
	}
	if temperature > 0 {
		req.Temperature = &temperature
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"model":         resp.Model,
		"total_tokens":  resp.Usage.TotalTokens,
		"choices":       len(resp.Choices),
		"finish_reason": finishReason(resp),
	}).Debug("Chat completion received")

	for _, choice := range resp.Choices {
		for _, call := range choice.Message.ToolCalls {
			if call.Function.Name != tool.Name {
				continue
			}
			return &ToolResult{
				Name:       call.Function.Name,
				Arguments:  json.RawMessage(call.Function.Arguments),
				Model:      resp.Model,
				TokensUsed: resp.Usage.TotalTokens,
			}, nil
		}
	}

	return nil, ErrNoToolCall
}

func finishReason(resp *ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].FinishReason
}
