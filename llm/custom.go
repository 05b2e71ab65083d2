package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/m4xw311/nexus/errors"
)

// responseFields are checked in order for the reply text.
var responseFields = []string{"response", "message", "answer", "content"}

// CustomLLMClient posts {"message": ...} to a user-supplied endpoint.
type CustomLLMClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewCustomLLMClient(endpoint, apiKey string, httpClient *http.Client, logger *slog.Logger) *CustomLLMClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomLLMClient{endpoint: endpoint, apiKey: apiKey, httpClient: httpClient, logger: logger}
}

// Respond sends one request. A reply carrying none of the known fields yields
// empty text rather than an error.
func (c *CustomLLMClient) Respond(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode custom API request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindConfigurationMissing, Message: fmt.Sprintf("Invalid custom endpoint: %s", c.endpoint), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindNetworkFailure, Message: "Network error calling custom API", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &errors.APIError{
			Kind:    errors.KindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Custom API error: %d", resp.StatusCode),
		}
	}

	data, err := readBody(resp)
	if err != nil {
		return "", &errors.APIError{Kind: errors.KindNetworkFailure, Message: "Network error reading custom API response", Err: err}
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", &errors.APIError{Kind: errors.KindMalformedResponse, Message: "Custom API returned invalid JSON", Err: err}
	}
	for _, name := range responseFields {
		if s, ok := fields[name].(string); ok && s != "" {
			return s, nil
		}
	}
	c.logger.Warn("custom API reply has no response field", "fields", responseFields)
	return "", nil
}
