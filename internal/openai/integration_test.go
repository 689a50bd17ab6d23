//go:build integration

package openai

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestIntegration_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	if apiKey == "" {
		t.Skip("OPENAI_API_KEY required for integration tests")
	}

	client := NewClient(baseURL, apiKey, logrus.New())
	svc := NewService(client, "gpt-4o-mini", "text-embedding-3-small", logrus.New())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	vec, err := svc.Embed(ctx, "consumer unit periodic inspection")
	require.NoError(t, err)
	require.NotEmpty(t, vec)

	tool := FunctionDefinition{
		Name: "echo_equipment",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"equipmentType": map[string]interface{}{"type": "string"}},
			"required":   []string{"equipmentType"},
		},
	}
	result, err := svc.CallFunction(ctx, []Message{{Role: "user", Content: "Equipment: consumer unit"}}, tool, 0, 200)
	require.NoError(t, err)
	require.NotEmpty(t, result.Arguments)
}
