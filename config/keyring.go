package config

import (
	"github.com/zalando/go-keyring"
)

const (
	keyringService   = "nexus"
	keyringGeminiKey = "gemini_key"
	keyringCustomKey = "custom_key"
)

// StoreKeyring saves a secret to the OS keyring.
func StoreKeyring(key, value string) error {
	return keyring.Set(keyringService, key, value)
}

// GetKeyring retrieves a secret from the OS keyring.
// Returns empty string if not found.
func GetKeyring(key string) string {
	val, err := keyring.Get(keyringService, key)
	if err != nil {
		return ""
	}
	return val
}

// DeleteKeyring removes a secret from the OS keyring.
func DeleteKeyring(key string) error {
	err := keyring.Delete(keyringService, key)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// applyKeyring fills empty credentials from the keyring.
func applyKeyring(api *APIConfig) {
	if api.GeminiKey == "" {
		api.GeminiKey = GetKeyring(keyringGeminiKey)
	}
	if api.CustomKey == "" {
		api.CustomKey = GetKeyring(keyringCustomKey)
	}
}

// DeleteKeyrings removes every secret nexus keeps in the keyring.
func DeleteKeyrings() error {
	for _, key := range []string{keyringGeminiKey, keyringCustomKey} {
		if err := DeleteKeyring(key); err != nil {
			return err
		}
	}
	return nil
}
