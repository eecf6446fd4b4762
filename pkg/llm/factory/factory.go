package factory

import (
	"fmt"
	"time"

	"github.com/487058267/agent-cross-discipline/pkg/llm"
	"github.com/487058267/agent-cross-discipline/pkg/llm/ollama"
	"github.com/487058267/agent-cross-discipline/pkg/llm/openai"
)

// NewLLMProvider picks a backend by name. "openai" covers every
// OpenAI-compatible chat completions service.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "openai", "":
		if baseURL == "" {
			return nil, fmt.Errorf("LLM base URL is required for provider %q", providerType)
		}
		return openai.NewProvider(apiKey, baseURL, modelName, timeout), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		p := ollama.NewOllamaProvider(baseURL, modelName)
		if timeout > 0 {
			p.Client.Timeout = timeout
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
