package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func chatServer(t *testing.T, content string, check func(req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testProvider(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()

	provider, err := NewOpenAIProvider(Config{
		Provider:  "perplexity",
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Model:     "sonar-pro",
		Timeout:   5,
		MaxTokens: 500,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestOpenAIProvider_ExtractClaims(t *testing.T) {
	server := chatServer(t, "1. The Eiffel Tower is in Paris\n2. It was built in 1889\n\nThese are the claims.", func(req openai.ChatCompletionRequest) {
		if req.Model != "sonar-pro" {
			t.Errorf("Expected model sonar-pro, got %s", req.Model)
		}
		if req.MaxTokens != ExtractMaxTokens {
			t.Errorf("Expected max tokens %d, got %d", ExtractMaxTokens, req.MaxTokens)
		}
		if !strings.Contains(req.Messages[0].Content, "Text: The Eiffel Tower") {
			t.Errorf("Prompt does not embed the text: %s", req.Messages[0].Content)
		}
	})
	defer server.Close()

	claims, err := testProvider(t, server.URL).ExtractClaims(context.Background(), "The Eiffel Tower is in Paris and was built in 1889.")
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d: %v", len(claims), claims)
	}
	if claims[0] != "The Eiffel Tower is in Paris" || claims[1] != "It was built in 1889" {
		t.Errorf("Unexpected claims: %v", claims)
	}
}

func TestOpenAIProvider_CheckClaim(t *testing.T) {
	content := "```json\n{\"verdict\": \"TRUE\", \"confidence\": 95, \"explanation\": \"Completed in 1889.\", \"sources\": [\"https://www.toureiffel.paris\"]}\n```"
	server := chatServer(t, content, func(req openai.ChatCompletionRequest) {
		if req.MaxTokens != 500 {
			t.Errorf("Expected max tokens 500, got %d", req.MaxTokens)
		}
		if !strings.Contains(req.Messages[0].Content, "Claim: It was built in 1889") {
			t.Errorf("Prompt does not embed the claim: %s", req.Messages[0].Content)
		}
	})
	defer server.Close()

	verdict, err := testProvider(t, server.URL).CheckClaim(context.Background(), "It was built in 1889")
	if err != nil {
		t.Fatalf("CheckClaim failed: %v", err)
	}

	if verdict.Verdict != "TRUE" || verdict.Confidence != 95 {
		t.Errorf("Unexpected verdict: %+v", verdict)
	}
	if len(verdict.Sources) != 1 || verdict.Sources[0] != "https://www.toureiffel.paris" {
		t.Errorf("Unexpected sources: %v", verdict.Sources)
	}
}

func TestOpenAIProvider_CheckClaim_PlainText(t *testing.T) {
	server := chatServer(t, "The claim is broadly accurate.", nil)
	defer server.Close()

	verdict, err := testProvider(t, server.URL).CheckClaim(context.Background(), "x")
	if err != nil {
		t.Fatalf("CheckClaim failed: %v", err)
	}
	if verdict.Verdict != "ANALYSIS COMPLETE" || verdict.Confidence != FallbackConfidence {
		t.Errorf("Expected fallback verdict, got %+v", verdict)
	}
	if verdict.Explanation != "The claim is broadly accurate." {
		t.Errorf("Unexpected explanation: %q", verdict.Explanation)
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := testProvider(t, server.URL).CheckClaim(context.Background(), "x")
	if err == nil {
		t.Fatal("Expected error for 401")
	}
	if !strings.Contains(err.Error(), "Perplexity API error") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "empty"})
	}))
	defer server.Close()

	_, err := testProvider(t, server.URL).ExtractClaims(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Errorf("Expected no response error, got %v", err)
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{Provider: "perplexity"})
	if err == nil {
		t.Fatal("Expected error without API key")
	}
	if err.Error() != "Perplexity API key is required" {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenAIProvider_Name(t *testing.T) {
	p, err := NewOpenAIProvider(Config{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openai" {
		t.Errorf("Expected openai, got %s", p.Name())
	}
}
