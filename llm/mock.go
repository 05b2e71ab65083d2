package llm

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Jokes are the fixed set the mock picks from when asked for a joke.
var Jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"Why don't skeletons fight each other? They don't have the guts!",
	"What do you call a fake noodle? An impasta!",
}

// MockGreeting is the demo-mode reply to any message containing "hello" or "hi".
const MockGreeting = "Hello! I'm Nexus AI, your intelligent assistant. How can I help you today?"

type mockRule struct {
	name     string
	keywords []string
	reply    func(m *MockLLMClient, message string) string
}

func fixed(s string) func(*MockLLMClient, string) string {
	return func(*MockLLMClient, string) string { return s }
}

// mockRules are checked in order; the first rule with a keyword contained in
// the lowercased message wins.
var mockRules = []mockRule{
	{"greeting", []string{"hello", "hi"}, fixed(MockGreeting)},
	{"status", []string{"how are you"}, fixed("I'm functioning perfectly! As an AI, I don't have feelings, but I'm ready to assist you with any questions or tasks you have.")},
	{"identity", []string{"name"}, fixed("I'm Nexus AI, a sophisticated language model designed to help with a wide variety of tasks.")},
	{"gratitude", []string{"thank"}, fixed("You're welcome! I'm glad I could help. Is there anything else you'd like to know?")},
	{"weather", []string{"weather"}, fixed("I don't have real-time weather data access in this demo. In a full implementation, I could connect to weather services to provide current conditions.")},
	{"joke", []string{"joke"}, func(m *MockLLMClient, _ string) string { return Jokes[m.intN(len(Jokes))] }},
	{"help", []string{"help"}, fixed("I can help with a wide variety of tasks including answering questions, generating content, explaining concepts, assisting with coding, creative writing, and much more. What specific help do you need?")},
	{"theme", []string{"dark mode", "theme"}, fixed("You can switch between dark and light mode with `nexus config theme`!")},
	{"api", []string{"api"}, fixed("I see you're asking about the API. If you're getting errors, please check: 1) Your API key is valid, 2) Billing is enabled on your Google Cloud account, 3) The Gemini API is enabled in your Google AI Studio.")},
}

func echo(message string) string {
	return "I understand you're asking: \"" + message + "\". This is a demonstration response. To get real AI responses, please configure a valid API key."
}

// MockLLMClient produces canned replies offline. Each reply is delayed by a
// uniformly random duration in [MinDelay, MaxDelay) to keep the latency of a
// real backend.
type MockLLMClient struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	// IntN overrides the random source; nil uses math/rand.
	IntN func(n int) int
}

// NewMockLLMClient returns a mock with the standard 1-2 second delay.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{MinDelay: time.Second, MaxDelay: 2 * time.Second}
}

func (m *MockLLMClient) intN(n int) int {
	if m.IntN != nil {
		return m.IntN(n)
	}
	return rand.Intn(n)
}

func (m *MockLLMClient) delay() time.Duration {
	d := m.MinDelay
	if span := m.MaxDelay - m.MinDelay; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	return d
}

// Respond waits out the simulated latency, then answers from the rule table.
func (m *MockLLMClient) Respond(ctx context.Context, message string) (string, error) {
	if d := m.delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return m.Reply(message), nil
}

// Reply is the rule lookup without the delay.
func (m *MockLLMClient) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range mockRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply(m, message)
			}
		}
	}
	return echo(message)
}
