package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/m4xw311/nexus/errors"
)

// DefaultGeminiBaseURL is the API family all candidate models live under.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiModels are the candidate models, tried in this order.
var GeminiModels = []string{
	"gemini-2.0-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.5-flash-lite-thinking",
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newGenerateRequest(message string) generateRequest {
	const threshold = "BLOCK_MEDIUM_AND_ABOVE"
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(message)}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.8,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: threshold},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: threshold},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: threshold},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: threshold},
		},
	}
}

// GeminiLLMClient calls the generateContent endpoint of each candidate model
// in turn until one answers.
type GeminiLLMClient struct {
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiLLMClient creates a client for the given key. Empty baseURL or
// models select the defaults.
func NewGeminiLLMClient(apiKey, baseURL string, models []string, httpClient *http.Client, logger *slog.Logger) *GeminiLLMClient {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if models == nil {
		models = GeminiModels
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiLLMClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		models:     models,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (g *GeminiLLMClient) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, url.QueryEscape(g.apiKey))
}

// Respond tries every candidate model in order. Any failure moves on to the
// next candidate; once all have failed the last error is returned.
func (g *GeminiLLMClient) Respond(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(newGenerateRequest(message))
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode Gemini request")
	}

	var lastErr error
	for _, model := range g.models {
		g.logger.Debug("trying Gemini model", "model", model)
		text, err := g.generate(ctx, model, body)
		if err == nil {
			g.logger.Info("Gemini model answered", "model", model)
			return text, nil
		}
		g.logger.Warn("Gemini model failed", "model", model, "kind", errors.KindOf(err), "error", err)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.NewAPIError(errors.KindAllCandidatesExhausted,
			"All Gemini API endpoints failed. Please check your API key and ensure Gemini API is enabled in Google AI Studio.")
	}
	return "", lastErr
}

func (g *GeminiLLMClient) generate(ctx context.Context, model string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(model), bytes.NewReader(body))
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindMalformedRequest, Message: "could not build Gemini request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindNetworkFailure, Message: fmt.Sprintf("Network error calling %s", model), Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindNetworkFailure, Message: fmt.Sprintf("Network error reading %s response", model), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Debug("Gemini error response", "model", model, "status", resp.StatusCode, "body", string(data))
		return "", errors.FromStatus("Gemini", resp.StatusCode, statusText(resp))
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &errors.APIError{Kind: errors.KindMalformedResponse, Message: "Unexpected API response format", Err: err}
	}
	if len(parsed.Candidates) > 0 && parsed.Candidates[0].Content != nil {
		parts := parsed.Candidates[0].Content.Parts
		if len(parts) == 0 {
			return "", errors.NewAPIError(errors.KindMalformedResponse, "Unexpected API response format")
		}
		return parts[0].Text, nil
	}
	if parsed.Error != nil {
		return "", errors.NewAPIError(errors.KindUpstream, "API Error: %s", parsed.Error.Message)
	}
	return "", errors.NewAPIError(errors.KindMalformedResponse, "Unexpected API response format")
}

// statusText strips the numeric prefix from resp.Status ("503 Service
// Unavailable" -> "Service Unavailable").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
