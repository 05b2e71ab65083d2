package llm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/errors"
)

// Acquirer picks a backend from the API configuration current at call time
// and asks it for a reply.
type Acquirer struct {
	HTTPClient    *http.Client
	GeminiBaseURL string
	GeminiModels  []string
	Mock          LLMClient
	Logger        *slog.Logger
}

// NewAcquirer returns an Acquirer whose raw HTTP providers use the given
// request timeout. Zero means no timeout.
func NewAcquirer(timeout time.Duration, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{
		HTTPClient: NewHTTPClient(timeout),
		Mock:       NewMockLLMClient(),
		Logger:     logger,
	}
}

// ClientFor returns the client that would serve api. Demo mode wins over any
// provider settings.
func (a *Acquirer) ClientFor(ctx context.Context, api config.APIConfig) (LLMClient, error) {
	if api.UseMock {
		if a.Mock == nil {
			a.Mock = NewMockLLMClient()
		}
		return a.Mock, nil
	}

	switch api.Provider {
	case config.ProviderGemini:
		if api.GeminiKey != "" {
			return NewGeminiLLMClient(api.GeminiKey, a.GeminiBaseURL, a.GeminiModels, a.HTTPClient, a.Logger), nil
		}
	case config.ProviderCustom:
		if api.CustomEndpoint != "" {
			return NewCustomLLMClient(api.CustomEndpoint, api.CustomKey, a.HTTPClient, a.Logger), nil
		}
	case config.ProviderOpenAI:
		c, err := NewOpenAILLMClient(api.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderAnthropic:
		c, err := NewAnthropicLLMClient(api.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderBedrock:
		c, err := NewBedrockLLMClient(ctx, api.Model)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.NewAPIError(errors.KindConfigurationMissing, "No valid API configuration found. Please check your API key.")
}

// Acquire returns the reply text for message, or an *errors.APIError
// describing why none could be obtained.
func (a *Acquirer) Acquire(ctx context.Context, api config.APIConfig, message string) (string, error) {
	client, err := a.ClientFor(ctx, api)
	if err != nil {
		return "", err
	}
	a.Logger.Debug("acquiring response", "provider", api.Provider, "mock", api.UseMock)
	return client.Respond(ctx, message)
}
