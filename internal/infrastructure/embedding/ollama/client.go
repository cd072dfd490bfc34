// Package ollama talks to a local Ollama instance for text embeddings.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bellaajmohsen7/sofiene/internal/infrastructure/resilience"
)

// Client implements the embedder port on top of the /api/embed endpoint.
// Every call runs under the shared retry/breaker executor.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

func (c *Client) ModelID() string { return c.model }

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": c.model,
		"input": texts,
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := c.executor.Execute(ctx, "embed_batch", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/embed", request, &response, "embed_batch")
	}, classifyEmbedError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed_batch", err)
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(response.Embeddings), len(texts))
	}
	return response.Embeddings, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	request := map[string]any{
		"model": c.model,
		"input": []string{text},
	}
	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := c.executor.Execute(ctx, "embed_query", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/embed", request, &response, "embed_query")
	}, classifyEmbedError)
	if err != nil {
		return nil, wrapTemporaryIfNeeded("embed_query", err)
	}
	if len(response.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embeddings[0], nil
}
