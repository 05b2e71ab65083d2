package config

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/store"
)

// Configured reports whether the selected provider has what it needs for a
// real call. SDK providers resolve their credentials from the environment
// when the client is built, so they always count as configured here.
func (a APIConfig) Configured() bool {
	switch a.Provider {
	case ProviderGemini:
		return a.GeminiKey != ""
	case ProviderCustom:
		return a.CustomEndpoint != ""
	case ProviderOpenAI, ProviderAnthropic, ProviderBedrock:
		return true
	}
	return false
}

// Manager owns the mutable API configuration and theme. It is the only path
// through which they change: Load reads the persisted state once, and every
// setter saves after mutating.
type Manager struct {
	mu     sync.Mutex
	kv     store.KV
	cfg    *Config
	api    APIConfig
	theme  string
	logger *slog.Logger
}

func NewManager(kv store.KV, cfg *Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{kv: kv, cfg: cfg, api: cfg.API, theme: cfg.Theme, logger: logger}
}

// Load resolves credentials and merges the persisted configuration over the
// file defaults. Fields present in the persisted JSON replace the defaults;
// absent ones keep them. A corrupt persisted value is logged and ignored.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	api := m.cfg.API
	if m.cfg.Credentials.Keyring {
		applyKeyring(&api)
	}
	if !api.Configured() {
		api.UseMock = true
	}

	saved, ok, err := m.kv.Get(store.KeyAPIConfig)
	if err != nil {
		return errors.Wrapf(err, "could not read saved API configuration")
	}
	if ok {
		merged := api
		if err := json.Unmarshal([]byte(saved), &merged); err != nil {
			m.logger.Error("error loading API config", "error", err)
		} else {
			api = merged
		}
	}
	m.api = api

	theme, ok, err := m.kv.Get(store.KeyTheme)
	if err != nil {
		return errors.Wrapf(err, "could not read saved theme")
	}
	if ok && validTheme(theme) {
		m.theme = theme
	}
	if !validTheme(m.theme) {
		m.theme = ThemeLight
	}
	return nil
}

// API returns a copy of the current API configuration.
func (m *Manager) API() APIConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.api
}

// Config returns the static configuration the manager was built from.
func (m *Manager) Config() *Config {
	return m.cfg
}

func (m *Manager) save() error {
	persisted := m.api
	if m.cfg.Credentials.Keyring {
		persisted.GeminiKey = ""
		persisted.CustomKey = ""
	}
	data, err := json.Marshal(persisted)
	if err != nil {
		return errors.Wrapf(err, "failed to serialize API configuration")
	}
	return m.kv.Set(store.KeyAPIConfig, string(data))
}

// SetGemini selects the Gemini provider with the given key and leaves demo mode.
func (m *Manager) SetGemini(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.NewAPIError(errors.KindConfigurationMissing, "Please provide a valid API key")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.Credentials.Keyring {
		if err := StoreKeyring(keyringGeminiKey, apiKey); err != nil {
			return errors.Wrapf(err, "could not store key in keyring")
		}
	}
	m.api.Provider = ProviderGemini
	m.api.GeminiKey = apiKey
	m.api.UseMock = false
	m.logger.Info("Gemini API configured")
	return m.save()
}

// SetCustom selects a custom endpoint, with an optional bearer key.
func (m *Manager) SetCustom(endpoint, apiKey string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.NewAPIError(errors.KindConfigurationMissing, "Please provide a custom endpoint URL")
	}
	if u, err := url.ParseRequestURI(endpoint); err != nil || u.Host == "" {
		return errors.NewAPIError(errors.KindConfigurationMissing, "Invalid custom endpoint URL: %s", endpoint)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	apiKey = strings.TrimSpace(apiKey)
	if m.cfg.Credentials.Keyring {
		var err error
		if apiKey == "" {
			err = DeleteKeyring(keyringCustomKey)
		} else {
			err = StoreKeyring(keyringCustomKey, apiKey)
		}
		if err != nil {
			return errors.Wrapf(err, "could not store key in keyring")
		}
	}
	m.api.Provider = ProviderCustom
	m.api.CustomEndpoint = endpoint
	m.api.CustomKey = apiKey
	m.api.UseMock = false
	m.logger.Info("custom API configured", "endpoint", endpoint)
	return m.save()
}

// SetProvider selects one of the SDK-backed providers and an optional model.
func (m *Manager) SetProvider(p Provider, model string) error {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderBedrock:
	default:
		return errors.New("provider '%s' cannot be selected this way", p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.api.Provider = p
	m.api.Model = strings.TrimSpace(model)
	m.api.UseMock = false
	return m.save()
}

// SetDemoMode switches to mock responses, keeping the provider settings.
func (m *Manager) SetDemoMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.api.UseMock = true
	m.logger.Info("switched to demo mode")
	return m.save()
}

// Theme returns the current display theme.
func (m *Manager) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func validTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark
}

func (m *Manager) SetTheme(theme string) error {
	if !validTheme(theme) {
		return errors.New("invalid theme '%s'. Must be '%s' or '%s'", theme, ThemeLight, ThemeDark)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return m.kv.Set(store.KeyTheme, theme)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (m *Manager) ToggleTheme() (string, error) {
	next := ThemeDark
	if m.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, m.SetTheme(next)
}

// Mode describes the active mode for display.
type Mode struct {
	Label string
	Color string
}

var providerNames = map[Provider]string{
	ProviderGemini:    "Gemini",
	ProviderCustom:    "Custom",
	ProviderOpenAI:    "OpenAI",
	ProviderAnthropic: "Anthropic",
	ProviderBedrock:   "Bedrock",
}

// Mode returns the label and colour shown for the current configuration.
func (m *Manager) Mode() Mode {
	api := m.API()
	if api.UseMock {
		return Mode{Label: "Demo Mode (Mock Responses)", Color: "#FFA500"}
	}
	switch api.Provider {
	case ProviderGemini:
		return Mode{Label: "Gemini API Mode - Active", Color: "#008000"}
	case ProviderCustom:
		return Mode{Label: "Custom API Mode - Active", Color: "#0000FF"}
	}
	name, ok := providerNames[api.Provider]
	if !ok {
		name = string(api.Provider)
	}
	return Mode{Label: name + " API Mode - Active", Color: "#008080"}
}
