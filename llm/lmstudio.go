package llm

import "context"

// lmstudioProvider implements Provider for LM Studio's local server,
// which speaks the OpenAI-compatible protocol.
type lmstudioProvider struct {
	base httpClient
}

// NewLMStudio creates a provider for LM Studio.
func NewLMStudio(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:1234"
	}
	return &lmstudioProvider{base: newHTTPClient(cfg)}
}

func (p *lmstudioProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return p.base.chat(ctx, req)
}

func (p *lmstudioProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return p.base.embed(ctx, texts)
}
