package factory

import (
	"fmt"

	"docchat-be/pkg/llm"
	"docchat-be/pkg/llm/ollama"
	"docchat-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, ollamaBaseURL, openaiBaseURL, openaiAPIKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(openaiAPIKey, openaiBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
