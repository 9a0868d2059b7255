package factory

import (
	"fmt"

	"career-compass-be/pkg/assistant"
	"career-compass-be/pkg/assistant/ollama"
)

func NewProvider(providerType, modelName, baseURL string) (assistant.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", providerType)
	}
}
