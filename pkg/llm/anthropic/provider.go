package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agency-ops-be/pkg/llm"
)

// Provider adapts requests to the Anthropic Messages API. Anthropic takes the
// system prompt as a top-level field, so the first system message is split
// out and the remaining history is flattened into a single labeled user turn.
type Provider struct {
	baseURL      string
	defaultModel string
	client       *http.Client
}

var _ llm.ProviderAdapter = &Provider{}

func NewProvider(baseURL, defaultModel string) *Provider {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}
	if defaultModel == "" {
		defaultModel = "claude-3-5-haiku-latest"
	}
	return &Provider{
		baseURL:      baseURL,
		defaultModel: defaultModel,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type messagesRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Messages    []messagePayload `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

func (p *Provider) Id() string {
	return "anthropic"
}

func (p *Provider) Complete(ctx context.Context, req llm.Request, apiKey string, modelId string) (*llm.Result, error) {
	if modelId == "" {
		modelId = p.defaultModel
	}

	system, rest := llm.SplitSystem(req.Messages)

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 1024 // the API rejects requests without a token budget
	}

	payload := messagesRequest{
		Model:     modelId,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []messagePayload{
			{Role: "user", Content: llm.FlattenMessages(rest)},
		},
		Temperature: req.Temperature,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/messages", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(bodyBytes, &msgResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(msgResp.Content) == 0 {
		return nil, fmt.Errorf("empty content from anthropic api")
	}

	result := &llm.Result{
		ProviderId: p.Id(),
		ModelId:    modelId,
		Text:       msgResp.Content[0].Text,
	}
	if msgResp.Usage != nil {
		result.Usage = &llm.Usage{
			InputTokens:  msgResp.Usage.InputTokens,
			OutputTokens: msgResp.Usage.OutputTokens,
			TotalTokens:  msgResp.Usage.InputTokens + msgResp.Usage.OutputTokens,
		}
	}

	return result, nil
}
