package llm

import "context"

// openaiProvider implements Provider for the OpenAI API.
//
// API key: set via config or OPENAI_API_KEY env var.
type openaiProvider struct {
	base httpClient
}

// NewOpenAI creates a provider for OpenAI.
func NewOpenAI(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	return &openaiProvider{base: newHTTPClient(cfg)}
}

func (p *openaiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return p.base.chat(ctx, req)
}

func (p *openaiProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return p.base.embed(ctx, texts)
}
