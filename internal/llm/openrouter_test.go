package llm

import "testing"

func TestOpenAICompatibleProviders(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (Provider, error)
		wantModel string
		wantErr   bool
	}{
		{
			name: "openrouter passes vendor/model through",
			build: func() (Provider, error) {
				return NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash-001"})
			},
			wantModel: "google/gemini-2.0-flash-001",
		},
		{
			name: "openrouter with custom base URL",
			build: func() (Provider, error) {
				return NewOpenRouterProvider(OpenRouterConfig{
					APIKey:  "sk-or",
					Model:   "anthropic/claude-3-haiku",
					BaseURL: "https://router.example/v1",
				})
			},
			wantModel: "anthropic/claude-3-haiku",
		},
		{
			name: "openrouter requires a key",
			build: func() (Provider, error) {
				return NewOpenRouterProvider(OpenRouterConfig{Model: "x/y"})
			},
			wantErr: true,
		},
		{
			name: "perplexity default model",
			build: func() (Provider, error) {
				return NewPerplexityProvider(PerplexityConfig{APIKey: "pplx", Model: "sonar"})
			},
			wantModel: "sonar",
		},
		{
			name: "perplexity friendly name",
			build: func() (Provider, error) {
				return NewPerplexityProvider(PerplexityConfig{APIKey: "pplx", Model: "reasoning"})
			},
			wantModel: "sonar-reasoning",
		},
		{
			name: "perplexity unknown name used as ID",
			build: func() (Provider, error) {
				return NewPerplexityProvider(PerplexityConfig{APIKey: "pplx", Model: "sonar-deep-research"})
			},
			wantModel: "sonar-deep-research",
		},
		{
			name: "perplexity requires a key",
			build: func() (Provider, error) {
				return NewPerplexityProvider(PerplexityConfig{Model: "sonar"})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.ModelID(); got != tt.wantModel {
				t.Errorf("ModelID() = %q, want %q", got, tt.wantModel)
			}
		})
	}
}
