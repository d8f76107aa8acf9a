package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIEmbedBatch(t *testing.T) {
	var gotReq openaiEmbeddingRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		// Return vectors out of order to verify the declared index survives.
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0, 2, 0}},
				{"index": 0, "embedding": []float32{3, 0, 0}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "text-embedding-3-small")
	results, err := p.EmbedBatch(context.Background(), []string{"first", "second"}, "RETRIEVAL_DOCUMENT")
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}

	if len(gotReq.Input) != 2 {
		t.Fatalf("request carried %d inputs, want one batch of 2", len(gotReq.Input))
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	if results[0].Index != 1 || results[1].Index != 0 {
		t.Errorf("declared indices lost: %d, %d", results[0].Index, results[1].Index)
	}

	// Vectors come back unit-normalized.
	for _, r := range results {
		var mag float64
		for _, v := range r.Values {
			mag += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(mag)-1) > 1e-6 {
			t.Errorf("vector for index %d not normalized, magnitude %f", r.Index, math.Sqrt(mag))
		}
	}
}

func TestOpenAIEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "")
	_, err := p.EmbedBatch(context.Background(), []string{"a", "b", "c"}, "RETRIEVAL_DOCUMENT")
	if err == nil {
		t.Fatal("EmbedBatch() expected count mismatch error")
	}
}

func TestOpenAIEmbedBatchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "")
	_, err := p.EmbedBatch(context.Background(), []string{"a"}, "RETRIEVAL_QUERY")
	if err == nil {
		t.Fatal("EmbedBatch() expected error")
	}
}

func TestNormalizeVectorZero(t *testing.T) {
	got := normalizeVector([]float32{0, 0, 0})
	for _, v := range got {
		if v != 0 {
			t.Fatalf("zero vector changed: %v", got)
		}
	}
}
