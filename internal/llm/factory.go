package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/factcheck/internal/model"
)

type preset struct {
	baseURL string
	model   string
	keyEnv  string
}

// Known OpenAI-compatible endpoints
var presets = map[string]preset{
	"perplexity": {baseURL: "https://api.perplexity.ai", model: "sonar-pro", keyEnv: "PERPLEXITY_API_KEY"},
	"openai":     {baseURL: "", model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	"ollama":     {baseURL: "http://localhost:11434/v1", model: "llama3.1", keyEnv: ""},
}

// NewProvider creates a new LLM provider based on configuration.
// Missing base URLs and API keys are filled from the provider preset and
// its environment variable.
func NewProvider(config Config) (Provider, error) {
	name := strings.ToLower(config.Provider)

	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: perplexity, openai, ollama)", config.Provider)
	}

	config.Provider = name
	if config.BaseURL == "" {
		config.BaseURL = p.baseURL
	}
	if config.Model == "" {
		config.Model = p.model
	}
	if config.APIKey == "" && p.keyEnv != "" {
		config.APIKey = os.Getenv(p.keyEnv)
	}
	if name == "ollama" && config.APIKey == "" {
		// Ollama ignores the key but go-openai always sends one
		config.APIKey = "ollama"
	}

	return NewOpenAIProvider(config)
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}

// KeyEnv returns the environment variable holding the provider's API key
func KeyEnv(provider string) string {
	return presets[strings.ToLower(provider)].keyEnv
}
