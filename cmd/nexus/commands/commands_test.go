package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m4xw311/nexus/agent"
	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/llm"
	"github.com/stretchr/testify/require"
)

type failingResponder struct{}

func (failingResponder) Acquire(context.Context, config.APIConfig, string) (string, error) {
	return "", errors.NewAPIError(errors.KindUnauthorized, "Unauthorized (401). Check that your Gemini API key is valid.")
}

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store")
	if backend == "sqlite" {
		storePath = filepath.Join(dir, "nexus.db")
	}
	path := filepath.Join(dir, "config.yaml")
	yaml := "display: html\nlog:\n  level: error\nstorage:\n  backend: " + backend + "\n  path: " + storePath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func useResponder(t *testing.T, r func() agent.Responder) {
	t.Helper()
	prev := newAcquirer
	newAcquirer = func(time.Duration, *slog.Logger) agent.Responder { return r() }
	t.Cleanup(func() { newAcquirer = prev })
}

func useMock(t *testing.T) {
	useResponder(t, func() agent.Responder {
		a := llm.NewAcquirer(0, nil)
		a.Mock = &llm.MockLLMClient{}
		return a
	})
}

func execute(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	require.NoError(t, root.Execute(), errOut.String())
	return out.String()
}

func TestChatAndHistory(t *testing.T) {
	t.Setenv(config.EnvGeminiKey, "")
	useMock(t)
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := writeConfig(t, backend)

			out := execute(t, cfg, "chat", "hello")
			require.Contains(t, out, "<p>"+llm.MockGreeting+"</p>")

			execute(t, cfg, "chat", "-s", "work/today", "tell me a joke")

			out = execute(t, cfg, "history", "list")
			require.Contains(t, out, "(default)\t2 messages")
			require.Contains(t, out, "work/today\t2 messages")

			out = execute(t, cfg, "history", "list", "work/*")
			require.NotContains(t, out, "(default)")

			out = execute(t, cfg, "history", "export")
			require.Contains(t, out, "<!DOCTYPE html>")
			require.Contains(t, out, "<p>hello</p>")

			execute(t, cfg, "history", "clear", "-s", "work/today")
			out = execute(t, cfg, "history", "list")
			require.NotContains(t, out, "work/today")

			execute(t, cfg, "reset")
			out = execute(t, cfg, "history", "list")
			require.Contains(t, out, "No stored chats.")
		})
	}
}

func TestConfigCommands(t *testing.T) {
	t.Setenv(config.EnvGeminiKey, "")
	cfg := writeConfig(t, "file")

	out := execute(t, cfg, "config", "show")
	require.Contains(t, out, "Demo Mode (Mock Responses)")

	out = execute(t, cfg, "config", "gemini", "abcdef123456")
	require.Contains(t, out, "Gemini 2.0 API configured! Try sending a message to test.")
	out = execute(t, cfg, "config", "show")
	require.Contains(t, out, "Gemini API Mode - Active")
	require.Contains(t, out, "****3456")
	require.NotContains(t, out, "abcdef123456")

	out = execute(t, cfg, "config", "custom", "https://example.com/chat")
	require.Contains(t, out, "Custom API configured! Try sending a message to test.")
	require.Contains(t, execute(t, cfg, "config", "show"), "Custom API Mode - Active")

	out = execute(t, cfg, "config", "provider", "anthropic", "--model", "claude-x")
	require.Contains(t, out, "Anthropic API Mode - Active")

	require.Contains(t, execute(t, cfg, "config", "demo"), "Demo mode activated! Using mock responses.")
	require.Contains(t, execute(t, cfg, "config", "theme"), "Theme set to dark.")
	require.Contains(t, execute(t, cfg, "config", "theme", "light"), "Theme set to light.")
}

func TestChatFailureFallsBackToDemo(t *testing.T) {
	t.Setenv(config.EnvGeminiKey, "")
	cfg := writeConfig(t, "file")
	execute(t, cfg, "config", "gemini", "bad-key")

	useResponder(t, func() agent.Responder { return failingResponder{} })
	out := execute(t, cfg, "chat", "hello")
	require.Contains(t, out, "Sorry, I&#39;m having trouble connecting to the AI service. Error: Unauthorized (401).")
	require.Contains(t, out, "Demo Mode (Mock Responses)")

	require.Contains(t, execute(t, cfg, "config", "show"), "Demo mode:       true")
}

func TestTestAndModelsCommands(t *testing.T) {
	t.Setenv(config.EnvGeminiKey, "")
	useMock(t)
	cfg := writeConfig(t, "file")

	out := execute(t, cfg, "test")
	require.Contains(t, out, "API Test Successful: "+llm.MockGreeting)

	out = execute(t, cfg, "models")
	require.Contains(t, out, "gemini-2.0-flash-lite (Free Tier - Recommended)")
	require.Contains(t, out, "gemini-2.0-flash (Latest & Most Capable)")
	require.Contains(t, out, "gemini-2.5-flash-lite-thinking (Experimental)")
}
