package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"buku-saku-server/config"
)

const defaultBaseURL = "http://127.0.0.1:11434"

// Client memanggil HTTP API penyedia embedding (kompatibel Ollama).
type Client struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

func NewClient(cfg *config.EmbeddingConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL:    baseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// EmbedText menghasilkan vektor embedding untuk satu teks.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(c.model) == "" {
		return nil, fmt.Errorf("model embedding belum dikonfigurasi")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("teks embedding kosong")
	}

	reqBody := embedRequest{
		Model: c.model,
		Input: text,
	}
	if c.dimensions > 0 {
		reqBody.Dimensions = c.dimensions
	}

	var resp embedResponse
	status, err := c.doJSON(ctx, "/api/embed", reqBody, &resp)
	if err != nil {
		if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
			return c.embedLegacy(ctx, text)
		}
		return nil, err
	}

	if len(resp.Embeddings) > 0 {
		return resp.Embeddings[0], nil
	}
	if len(resp.Embedding) > 0 {
		return resp.Embedding, nil
	}
	return nil, fmt.Errorf("respons embed tidak memuat embeddings")
}

// embedLegacy : fallback ke endpoint /api/embeddings lama
func (c *Client) embedLegacy(ctx context.Context, text string) ([]float64, error) {
	reqBody := legacyEmbedRequest{
		Model:  c.model,
		Prompt: text,
	}
	var resp legacyEmbedResponse
	if _, err := c.doJSON(ctx, "/api/embeddings", reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("respons embedding kosong")
	}
	return resp.Embedding, nil
}

func (c *Client) doJSON(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("api embedding error: %s", errResp.Error)
		}
		return resp.StatusCode, fmt.Errorf("api embedding error: %s", resp.Status)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

type embedRequest struct {
	Model      string `json:"model"`
	Input      any    `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Embedding  []float64   `json:"embedding"`
}

type legacyEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type legacyEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

type errorResponse struct {
	Error string `json:"error"`
}
