package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/m4xw311/nexus/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ModelInfo describes a model the Gemini provider can use.
type ModelInfo struct {
	Name        string
	Description string
	Methods     []string
}

var modelDescriptions = map[string]string{
	"gemini-2.0-flash-lite":          "Free Tier - Recommended",
	"gemini-2.0-flash":               "Latest & Most Capable",
	"gemini-2.5-flash-lite-thinking": "Experimental",
}

// KnownModels lists the candidate models in the order they are tried.
func KnownModels() []ModelInfo {
	models := make([]ModelInfo, 0, len(GeminiModels))
	for _, name := range GeminiModels {
		models = append(models, ModelInfo{Name: name, Description: modelDescriptions[name]})
	}
	return models
}

// ListRemoteModels asks the Gemini API which models the key can see.
func ListRemoteModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if apiKey == "" {
		return nil, errors.NewAPIError(errors.KindConfigurationMissing, "Please provide a valid API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create genai client")
	}
	defer client.Close()

	var models []ModelInfo
	iter := client.ListModels(ctx)
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &errors.APIError{Kind: errors.KindUpstream, Message: "Could not list Gemini models", Err: err}
		}
		models = append(models, ModelInfo{
			Name:        strings.TrimPrefix(m.Name, "models/"),
			Description: m.DisplayName,
			Methods:     m.SupportedGenerationMethods,
		})
	}
	return models, nil
}
