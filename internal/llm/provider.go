package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/factcheck/internal/model"
)

// Provider defines the interface for LLM providers used by the fact-check server
type Provider interface {
	// Name returns the provider name
	Name() string

	// ExtractClaims lists the checkable factual claims found in text
	ExtractClaims(ctx context.Context, text string) ([]string, error)

	// CheckClaim asks for a verdict on a single claim
	CheckClaim(ctx context.Context, claim string) (*model.VerdictDetail, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "perplexity", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for verdict generation; extraction uses ExtractMaxTokens
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ExtractMaxTokens caps the claim list response
const ExtractMaxTokens = 300

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "perplexity",
		Model:     "sonar-pro",
		Timeout:   60,
		MaxTokens: 500,
	}
}

// BuildExtractPrompt asks for a bare numbered list of claims
func BuildExtractPrompt(text string) string {
	return fmt.Sprintf(`Extract all factual claims from this text that can be fact-checked.
Return only the claims as a numbered list, nothing else:

Text: %s`, text)
}

// BuildVerdictPrompt asks for a JSON verdict on one claim
func BuildVerdictPrompt(claim string) string {
	return fmt.Sprintf(`Fact-check this claim with high accuracy. Provide:
1. Verdict (TRUE/FALSE/PARTIALLY TRUE/INSUFFICIENT EVIDENCE)
2. Confidence level (0-100%%)
3. Brief explanation (2-3 sentences)
4. Key sources used

Claim: %s

Format your response as JSON with keys: verdict, confidence, explanation, sources`, claim)
}
