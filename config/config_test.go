package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/store"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newTestManager(t *testing.T, cfg *Config) (*Manager, store.KV) {
	t.Helper()
	kv, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewManager(kv, cfg, nil), kv
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  provider: custom
  custom_endpoint: https://example.test/chat
theme: dark
request_timeout: 30s
storage:
  backend: sqlite
`), 0644))

	cfg := Default()
	require.NoError(t, LoadFromFile(path, cfg))
	require.Equal(t, ProviderCustom, cfg.API.Provider)
	require.Equal(t, "https://example.test/chat", cfg.API.CustomEndpoint)
	require.Equal(t, ThemeDark, cfg.Theme)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, filepath.Join(".nexus", "store"), cfg.Storage.Path)
	require.Equal(t, DisplayTerminal, cfg.Display)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvGeminiKey, "env-key")
	t.Setenv(EnvCustomEndpoint, "https://env.test")
	cfg := Default()
	cfg.API.CustomEndpoint = "https://file.test"
	ApplyEnv(cfg)
	require.Equal(t, "env-key", cfg.API.GeminiKey)
	require.Equal(t, "https://file.test", cfg.API.CustomEndpoint)
}

func TestLoadWithoutCredentialsStartsInDemoMode(t *testing.T) {
	m, _ := newTestManager(t, Default())
	require.NoError(t, m.Load())
	require.True(t, m.API().UseMock)
	require.Equal(t, "Demo Mode (Mock Responses)", m.Mode().Label)
	require.Equal(t, ThemeLight, m.Theme())
}

func TestLoadWithKeyUsesGemini(t *testing.T) {
	cfg := Default()
	cfg.API.GeminiKey = "k"
	m, _ := newTestManager(t, cfg)
	require.NoError(t, m.Load())
	require.False(t, m.API().UseMock)
	require.Equal(t, "Gemini API Mode - Active", m.Mode().Label)
}

func TestLoadMergesPersistedConfig(t *testing.T) {
	cfg := Default()
	cfg.API.GeminiKey = "file-key"
	m, kv := newTestManager(t, cfg)
	require.NoError(t, kv.Set(store.KeyAPIConfig, `{"provider":"custom","customEndpoint":"https://saved.test","useMock":false}`))
	require.NoError(t, kv.Set(store.KeyTheme, "dark"))

	require.NoError(t, m.Load())
	api := m.API()
	require.Equal(t, ProviderCustom, api.Provider)
	require.Equal(t, "https://saved.test", api.CustomEndpoint)
	require.Equal(t, "file-key", api.GeminiKey)
	require.False(t, api.UseMock)
	require.Equal(t, ThemeDark, m.Theme())
}

func TestLoadIgnoresCorruptPersistedConfig(t *testing.T) {
	m, kv := newTestManager(t, Default())
	require.NoError(t, kv.Set(store.KeyAPIConfig, `{not json`))
	require.NoError(t, m.Load())
	require.Equal(t, ProviderGemini, m.API().Provider)
}

func TestSetters(t *testing.T) {
	m, kv := newTestManager(t, Default())
	require.NoError(t, m.Load())

	err := m.SetGemini("   ")
	require.Error(t, err)
	require.Equal(t, errors.KindConfigurationMissing, errors.KindOf(err))

	require.NoError(t, m.SetGemini(" abc "))
	api := m.API()
	require.Equal(t, ProviderGemini, api.Provider)
	require.Equal(t, "abc", api.GeminiKey)
	require.False(t, api.UseMock)

	require.Error(t, m.SetCustom("", ""))
	require.Error(t, m.SetCustom("not a url", ""))
	require.NoError(t, m.SetCustom("https://bot.test/ask", "secret"))
	require.Equal(t, "Custom API Mode - Active", m.Mode().Label)

	require.NoError(t, m.SetDemoMode())
	require.True(t, m.API().UseMock)

	saved, ok, err := kv.Get(store.KeyAPIConfig)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted APIConfig
	require.NoError(t, json.Unmarshal([]byte(saved), &persisted))
	require.Equal(t, ProviderCustom, persisted.Provider)
	require.Equal(t, "https://bot.test/ask", persisted.CustomEndpoint)
	require.Equal(t, "secret", persisted.CustomKey)
	require.True(t, persisted.UseMock)

	// A fresh manager over the same store sees the same state.
	again := NewManager(kv, Default(), nil)
	require.NoError(t, again.Load())
	require.Equal(t, m.API(), again.API())
}

func TestSetProvider(t *testing.T) {
	m, _ := newTestManager(t, Default())
	require.NoError(t, m.Load())
	require.Error(t, m.SetProvider(ProviderGemini, ""))
	require.NoError(t, m.SetProvider(ProviderAnthropic, "claude-3-5-haiku-latest"))
	require.Equal(t, "Anthropic API Mode - Active", m.Mode().Label)
	require.Equal(t, "claude-3-5-haiku-latest", m.API().Model)
}

func TestToggleTheme(t *testing.T) {
	m, kv := newTestManager(t, Default())
	require.NoError(t, m.Load())

	theme, err := m.ToggleTheme()
	require.NoError(t, err)
	require.Equal(t, ThemeDark, theme)
	v, _, _ := kv.Get(store.KeyTheme)
	require.Equal(t, ThemeDark, v)

	theme, err = m.ToggleTheme()
	require.NoError(t, err)
	require.Equal(t, ThemeLight, theme)
	require.Error(t, m.SetTheme("solarized"))
}

func TestKeyringCredentials(t *testing.T) {
	keyring.MockInit()

	cfg := Default()
	cfg.Credentials.Keyring = true
	m, kv := newTestManager(t, cfg)
	require.NoError(t, m.Load())
	require.NoError(t, m.SetGemini("kr-secret"))

	saved, _, err := kv.Get(store.KeyAPIConfig)
	require.NoError(t, err)
	require.NotContains(t, saved, "kr-secret")
	require.Equal(t, "kr-secret", GetKeyring(keyringGeminiKey))

	again := NewManager(kv, cfg, nil)
	require.NoError(t, again.Load())
	require.Equal(t, "kr-secret", again.API().GeminiKey)
	require.False(t, again.API().UseMock)

	require.NoError(t, DeleteKeyrings())
	require.Empty(t, GetKeyring(keyringGeminiKey))
	require.NoError(t, DeleteKeyrings())
}
