package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m4xw311/nexus/agent"
	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/llm"
	"github.com/m4xw311/nexus/session"
	"github.com/m4xw311/nexus/store"
)

// createTestAgent creates a demo-mode agent backed by a temporary store.
func createTestAgent(t *testing.T, display string) *agent.Agent {
	t.Helper()
	kv, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	cfg := config.Default()
	cfg.Display = display
	mgr := config.NewManager(kv, cfg, nil)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	acquirer := llm.NewAcquirer(0, nil)
	acquirer.Mock = &llm.MockLLMClient{}
	return agent.New(mgr, session.New(kv, ""), acquirer, nil)
}

func run(t *testing.T, a *agent.Agent, initial, input string) string {
	t.Helper()
	var out bytes.Buffer
	term := NewWithIO(a, strings.NewReader(input), &out)
	if err := term.Run(context.Background(), initial); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestTerminalNew(t *testing.T) {
	testAgent := createTestAgent(t, config.DisplayTerminal)

	term := New(testAgent)
	if term == nil {
		t.Fatal("Expected terminal instance, got nil")
	}

	if term.agent != testAgent {
		t.Fatal("Terminal agent doesn't match the provided agent")
	}
}

func TestTerminalHTMLDisplay(t *testing.T) {
	a := createTestAgent(t, config.DisplayHTML)
	out := run(t, a, "", "hello\n/quit\nnever sent\n")

	if !strings.Contains(out, "Demo Mode (Mock Responses)") {
		t.Errorf("Expected mode line, got %q", out)
	}
	if !strings.Contains(out, "<p>"+llm.MockGreeting+"</p>") {
		t.Errorf("Expected greeting fragment, got %q", out)
	}
	if len(a.Session.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(a.Session.Messages))
	}
}

func TestTerminalInitialPrompt(t *testing.T) {
	a := createTestAgent(t, config.DisplayHTML)
	run(t, a, "tell me a joke", "")

	if len(a.Session.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(a.Session.Messages))
	}
	if a.Session.Messages[0].Text != "tell me a joke" {
		t.Errorf("Expected initial prompt to be recorded, got %q", a.Session.Messages[0].Text)
	}
}

func TestTerminalRendersMarkdown(t *testing.T) {
	a := createTestAgent(t, config.DisplayTerminal)
	out := run(t, a, "", "what is the weather\n")

	if !strings.Contains(out, "real-time") {
		t.Errorf("Expected rendered reply, got %q", out)
	}
	if strings.Contains(out, "<p>") {
		t.Errorf("Terminal display should not print HTML, got %q", out)
	}
}

func TestTerminalCommands(t *testing.T) {
	a := createTestAgent(t, config.DisplayHTML)
	out := run(t, a, "", "hello\n/new\n/theme\n/test\n/bogus\n/exit\n")

	if len(a.Session.Messages) != 0 {
		t.Errorf("Expected /new to clear the chat, got %d messages", len(a.Session.Messages))
	}
	if a.Config.Theme() != config.ThemeDark {
		t.Errorf("Expected theme dark after /theme, got %s", a.Config.Theme())
	}
	if !strings.Contains(out, "API Test Successful: ") {
		t.Errorf("Expected self-test result, got %q", out)
	}
	if !strings.Contains(out, "Unknown command /bogus") {
		t.Errorf("Expected unknown command notice, got %q", out)
	}
}

func TestTerminalDemoCommand(t *testing.T) {
	a := createTestAgent(t, config.DisplayHTML)
	if err := a.Config.SetGemini("key"); err != nil {
		t.Fatalf("SetGemini failed: %v", err)
	}

	out := run(t, a, "", "/demo\n")
	if !a.Config.API().UseMock {
		t.Error("Expected demo mode after /demo")
	}
	if !strings.Contains(out, "Demo mode activated! Using mock responses.") {
		t.Errorf("Expected confirmation, got %q", out)
	}
}
