// Package store is the key-value persistence boundary of the chat client.
// Values are opaque strings (usually JSON) addressed by string keys such as
// "apiConfig", "chatHistory" and "theme".
package store

import (
	"strings"

	"github.com/m4xw311/nexus/errors"
)

// Well-known keys.
const (
	KeyAPIConfig   = "apiConfig"
	KeyChatHistory = "chatHistory"
	KeyTheme       = "theme"
)

// KV is a string-keyed store. Get reports ok=false for a missing key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the KV for the named backend rooted at path. For the file
// backend path is a directory; for sqlite it is the database file.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	}
	return nil, errors.New("unknown storage backend '%s'", backend)
}

// ClearAll deletes the API configuration, the theme and every chat history.
func ClearAll(kv KV) error {
	keys, err := kv.Keys()
	if err != nil {
		return errors.Wrapf(err, "could not list stored keys")
	}
	for _, key := range keys {
		if key == KeyAPIConfig || key == KeyTheme || key == KeyChatHistory || strings.HasPrefix(key, KeyChatHistory+":") {
			if err := kv.Delete(key); err != nil {
				return errors.Wrapf(err, "could not delete '%s'", key)
			}
		}
	}
	return nil
}
