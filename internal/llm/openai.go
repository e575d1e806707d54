package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider for any OpenAI-compatible chat API
// (OpenAI, Perplexity Sonar, Ollama's /v1 endpoint)
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates a new OpenAI-compatible provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", providerLabel(config.Provider))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	if config.HTTPProxy != "" || config.HTTPSProxy != "" {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		}
	}

	name := strings.ToLower(config.Provider)
	if name == "" {
		name = "openai"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   name,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider answers a lightweight request
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// ExtractClaims asks the model for a numbered list of claims
func (p *OpenAIProvider) ExtractClaims(ctx context.Context, text string) ([]string, error) {
	content, err := p.complete(ctx, BuildExtractPrompt(text), ExtractMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	return ParseClaimList(content), nil
}

// CheckClaim asks the model for a verdict on one claim
func (p *OpenAIProvider) CheckClaim(ctx context.Context, claim string) (*model.VerdictDetail, error) {
	content, err := p.complete(ctx, BuildVerdictPrompt(claim), p.maxTokens())
	if err != nil {
		return nil, fmt.Errorf("check claim: %w", err)
	}
	verdict := ParseVerdict(content)
	return &verdict, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", providerLabel(p.name), err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", providerLabel(p.name))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) model() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	if preset, ok := presets[p.name]; ok {
		return preset.model
	}
	return openai.GPT4oMini
}

func (p *OpenAIProvider) maxTokens() int {
	if p.config.MaxTokens > 0 {
		return p.config.MaxTokens
	}
	return 500
}

func providerLabel(name string) string {
	switch strings.ToLower(name) {
	case "perplexity":
		return "Perplexity"
	case "ollama":
		return "Ollama"
	default:
		return "OpenAI"
	}
}
