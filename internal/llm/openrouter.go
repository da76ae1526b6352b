package llm

import "fmt"

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultPerplexityBaseURL = "https://api.perplexity.ai"
)

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	return &OpenRouterProvider{
		OpenAIProvider: newOpenAICompatible(cfg.APIKey, baseURL, cfg.Model),
	}, nil
}

// perplexityModels maps friendly names to Perplexity model IDs.
var perplexityModels = map[string]string{
	"sonar":     "sonar",
	"sonar-pro": "sonar-pro",
	"reasoning": "sonar-reasoning",
}

// PerplexityProvider targets Perplexity's OpenAI-compatible chat API.
type PerplexityProvider struct {
	*OpenAIProvider
}

// NewPerplexityProvider creates a provider targeting the Perplexity API.
func NewPerplexityProvider(cfg PerplexityConfig) (*PerplexityProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultPerplexityBaseURL
	}

	return &PerplexityProvider{
		OpenAIProvider: newOpenAICompatible(cfg.APIKey, baseURL, resolveModel(cfg.Model, perplexityModels)),
	}, nil
}
