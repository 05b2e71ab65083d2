package llm

import (
	"encoding/json"
	"testing"

	"github.com/m4xw311/nexus/errors"
)

func TestCreateAnthropicRequest(t *testing.T) {
	body, err := createAnthropicRequest("Hello, world!", "be brief")
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	var request map[string]interface{}
	if err := json.Unmarshal(body, &request); err != nil {
		t.Fatalf("Request is not valid JSON: %v", err)
	}

	if request["anthropic_version"] != "bedrock-2023-05-31" {
		t.Errorf("Expected anthropic_version 'bedrock-2023-05-31', got '%v'", request["anthropic_version"])
	}
	if request["system"] != "be brief" {
		t.Errorf("Expected system 'be brief', got '%v'", request["system"])
	}

	messages, ok := request["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %v", request["messages"])
	}
	msg := messages[0].(map[string]interface{})
	if msg["role"] != "user" {
		t.Errorf("Expected role 'user', got '%v'", msg["role"])
	}
	block := msg["content"].([]interface{})[0].(map[string]interface{})
	if block["text"] != "Hello, world!" {
		t.Errorf("Expected text 'Hello, world!', got '%v'", block["text"])
	}

	// Test without system prompt
	body, _ = createAnthropicRequest("hi", "")
	request = nil
	_ = json.Unmarshal(body, &request)
	if _, exists := request["system"]; exists {
		t.Error("Expected no system field when system prompt is empty")
	}
}

func TestProcessBedrockResponse(t *testing.T) {
	text, err := processBedrockResponse([]byte(`{"content":[{"type":"text","text":"Hello"},{"type":"tool_use"},{"type":"text","text":" there"}]}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "Hello there" {
		t.Errorf("Expected 'Hello there', got '%s'", text)
	}

	_, err = processBedrockResponse([]byte(`not json`))
	if errors.KindOf(err) != errors.KindMalformedResponse {
		t.Errorf("Expected malformed_response, got %v", errors.KindOf(err))
	}

	_, err = processBedrockResponse([]byte(`{"error":"throttled"}`))
	if errors.KindOf(err) != errors.KindUpstream {
		t.Errorf("Expected upstream, got %v", errors.KindOf(err))
	}
}

func TestSDKError(t *testing.T) {
	err := sdkError("OpenAI", 429, errors.New("boom"))
	if errors.KindOf(err) != errors.KindRateLimited {
		t.Errorf("Expected rate_limited, got %v", errors.KindOf(err))
	}
	err = sdkError("OpenAI", 0, errors.New("dial tcp"))
	if errors.KindOf(err) != errors.KindNetworkFailure {
		t.Errorf("Expected network_failure, got %v", errors.KindOf(err))
	}
}
