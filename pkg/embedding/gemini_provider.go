package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiProvider implements Provider against batchEmbedContents. Gemini
// returns vectors in request order without explicit indices, so each result
// is tagged with its position.
type GeminiProvider struct {
	ApiKey string
	Model  string
	client *http.Client
}

func NewGeminiProvider(apiKey string) Provider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Model:  "text-embedding-004",
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (p *GeminiProvider) EmbedBatch(ctx context.Context, inputs []string, taskType string) ([]IndexedEmbedding, error) {
	batch := geminiBatchRequest{
		Requests: make([]geminiEmbedRequest, len(inputs)),
	}
	for i, text := range inputs {
		batch.Requests[i] = geminiEmbedRequest{
			Model: fmt.Sprintf("models/%s", p.Model),
			Content: geminiContent{
				Parts: []geminiPart{{Text: text}},
			},
			TaskType: taskType,
		}
	}

	jsonBody, err := json.Marshal(batch)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:batchEmbedContents",
		p.Model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embedding error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var batchResp geminiBatchResponse
	if err := json.Unmarshal(bodyBytes, &batchResp); err != nil {
		return nil, err
	}

	if len(batchResp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d inputs, got %d vectors", len(inputs), len(batchResp.Embeddings))
	}

	results := make([]IndexedEmbedding, len(batchResp.Embeddings))
	for i, e := range batchResp.Embeddings {
		results[i] = IndexedEmbedding{
			Index:  i,
			Values: normalizeVector(e.Values),
		}
	}
	return results, nil
}
