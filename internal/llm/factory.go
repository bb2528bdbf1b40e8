package llm

import (
	"fmt"
	"os"
)

// DefaultOllamaHost is used when OLLAMA_HOST is not set.
const DefaultOllamaHost = "http://localhost:11434"

// NewProvider creates a provider for providerType and model. API keys come
// from the environment. Supported types: "openai", "openrouter", "ollama".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "openrouter":
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		return NewCompatibleProvider("openrouter", apiKey, OpenRouterBaseURL, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// Options wrap a base provider with rate limiting and retries.
type Options struct {
	RequestsPerMinute int
	MaxRetries        uint
}

// Wrap applies opts to p: rate limiting first, so every retry also waits
// for a token.
func Wrap(p Provider, opts Options) Provider {
	if opts.RequestsPerMinute > 0 {
		p = NewRateLimitedProvider(p, opts.RequestsPerMinute)
	}
	if opts.MaxRetries > 0 {
		p = NewRetryProvider(p, opts.MaxRetries)
	}
	return p
}
