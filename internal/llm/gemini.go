package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
)

// GeminiClient talks to the Gemini generateContent endpoint. It is the
// default provider and defines the wire contract the rest of the system is
// built against: request {contents:[{parts:[{text}]}]}, response
// {candidates:[{content:{parts:[{text}]}}]}.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini client. The API key is verified on every
// call rather than at construction so a misconfigured process still starts
// with model features disabled.
func NewGeminiClient(cfg Config) (*GeminiClient, error) {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: geminiBaseURL,
		// No client timeout: a turn blocks until the model responds or the
		// transport fails. Cancellation, if any, comes from ctx.
		httpClient: &http.Client{},
	}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// SetBaseURL overrides the endpoint base, used by tests.
func (c *GeminiClient) SetBaseURL(u string) {
	c.baseURL = u
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the first candidate's text. Any
// response shape other than the expected envelope is a gateway error.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", configErr("gemini API key not set")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", transientErr("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", transientErr("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transientErr("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transientErr("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", transientErr("unexpected status %d", resp.StatusCode)
	}

	var envelope geminiResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", transientErr("decode response: %w", err)
	}
	if len(envelope.Candidates) == 0 ||
		len(envelope.Candidates[0].Content.Parts) == 0 ||
		envelope.Candidates[0].Content.Parts[0].Text == "" {
		return "", transientErr("invalid response envelope")
	}

	return envelope.Candidates[0].Content.Parts[0].Text, nil
}
