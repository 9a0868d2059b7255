package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"career-compass-be/pkg/assistant"
	"career-compass-be/pkg/assistant/factory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "llama3"
	}

	provider, err := factory.NewProvider("ollama", model, baseURL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	completion, err := provider.Complete(ctx, []assistant.Message{
		{Role: "system", Content: "You are a helpful assistant. Answer in one sentence."},
		{Role: "user", Content: "Say hello."},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, completion.Content)
	// Ollama reports prompt and generation counts, so the total should
	// be non-zero for any real exchange.
	assert.Greater(t, completion.TotalTokens, 0)
}
