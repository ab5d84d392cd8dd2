package factory

import (
	"fmt"

	"ai-retrieval-be/pkg/llm"
	"ai-retrieval-be/pkg/llm/gemini"
	"ai-retrieval-be/pkg/llm/huggingface"
	"ai-retrieval-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, geminiApiKey, huggingFaceApiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	case "huggingface":
		// Key may be empty for public router models
		return huggingface.NewHuggingFaceProvider(huggingFaceApiKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
