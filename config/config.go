package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/m4xw311/nexus/errors"
	"gopkg.in/yaml.v3"
)

// Provider selects the backend that answers chat messages.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderCustom    Provider = "custom"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// APIConfig is the part of the configuration read by the response acquirer
// on every call. It is persisted under the "apiConfig" key using the JSON
// names below.
type APIConfig struct {
	Provider       Provider `yaml:"provider" json:"provider"`
	GeminiKey      string   `yaml:"gemini_key" json:"geminiKey,omitempty"`
	CustomEndpoint string   `yaml:"custom_endpoint" json:"customEndpoint"`
	CustomKey      string   `yaml:"custom_key" json:"customKey,omitempty"`
	UseMock        bool     `yaml:"use_mock" json:"useMock"`
	// Model is used by the SDK-backed providers; the gemini provider always
	// walks its fixed candidate list.
	Model string `yaml:"model" json:"model,omitempty"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CredentialsConfig struct {
	// Keyring stores API keys in the OS keyring instead of the store.
	Keyring bool `yaml:"keyring"`
}

const (
	DisplayTerminal = "terminal"
	DisplayHTML     = "html"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Config struct {
	API            APIConfig         `yaml:"api"`
	Storage        StorageConfig     `yaml:"storage"`
	Theme          string            `yaml:"theme"`
	Display        string            `yaml:"display"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
	Log            LogConfig         `yaml:"log"`
	Credentials    CredentialsConfig `yaml:"credentials"`
}

// Default returns the configuration used when no file overrides it. The
// manager falls back to demo mode when the provider lacks credentials.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Provider: ProviderGemini,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(".nexus", "store"),
		},
		Theme:   ThemeLight,
		Display: DisplayTerminal,
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig loads configuration from the user's home directory and the current
// working directory, with the latter taking precedence.
func LoadConfig() (*Config, error) {
	cfg := Default()

	// Load user-level config first
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".nexus", "config.yaml")
		if _, err := os.Stat(userConfigPath); err == nil {
			if err := LoadFromFile(userConfigPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	// Load project-level config, overriding user-level
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectConfigPath := filepath.Join(wd, ".nexus", "config.yaml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := LoadFromFile(projectConfigPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	return cfg, nil
}

// LoadFromFile merges the YAML file at path into cfg. Fields absent from the
// file keep their current values.
func LoadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "invalid YAML in %s", path)
	}
	return nil
}

// Environment variables consulted for credentials.
const (
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvCustomEndpoint = "NEXUS_CUSTOM_ENDPOINT"
	EnvCustomKey      = "NEXUS_CUSTOM_KEY"
)

// LoadEnv loads a .env file from the working directory if one exists. Values
// already present in the environment win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return errors.Wrapf(godotenv.Load(".env"), "could not load .env")
}

// ApplyEnv fills credentials missing from cfg from the environment.
func ApplyEnv(cfg *Config) {
	if cfg.API.GeminiKey == "" {
		cfg.API.GeminiKey = os.Getenv(EnvGeminiKey)
	}
	if cfg.API.CustomEndpoint == "" {
		cfg.API.CustomEndpoint = os.Getenv(EnvCustomEndpoint)
	}
	if cfg.API.CustomKey == "" {
		cfg.API.CustomKey = os.Getenv(EnvCustomKey)
	}
}
