package llm

import (
	"context"
	"os"

	"github.com/m4xw311/nexus/errors"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAILLMClient is a client for the OpenAI Chat Completion API.
type OpenAILLMClient struct {
	client *openai.Client
	model  string
}

// NewOpenAILLMClient creates a new OpenAILLMClient. It requires the OPENAI_API_KEY environment variable to be set.
// It also supports OPENAI_BASE_URL for OpenAI-compatible endpoints.
func NewOpenAILLMClient(modelName string) (*OpenAILLMClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.NewAPIError(errors.KindConfigurationMissing, "OPENAI_API_KEY environment variable not set")
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	c := openai.NewClient(options...)
	return &OpenAILLMClient{client: &c, model: modelName}, nil
}

// Respond sends the guidelines as a system message followed by the user's message.
func (o *OpenAILLMClient) Respond(ctx context.Context, message string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemGuidelines),
			openai.UserMessage(message),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", sdkError("OpenAI", apiErr.StatusCode, err)
		}
		return "", sdkError("OpenAI", 0, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewAPIError(errors.KindMalformedResponse, "OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
