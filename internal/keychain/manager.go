// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for bzm-mcp.
// It stores the BlazeMeter API key pair saved by `bzm-mcp login` in the OS
// credential store (macOS Keychain, Windows Credential Manager, Secret Service,
// KWallet or pass), so the tool server can start without a key file.
package keychain

import (
	"encoding/json"
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "bzm-mcp"

// KeyAPIKey is the keychain item holding the JSON-encoded key pair.
const KeyAPIKey = "blazemeter_api_key"

// ErrNotFound is returned when no API key has been stored.
var ErrNotFound = errors.New("no API key stored in keychain")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

type storedKey struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// NewManager opens the OS keyring using the native backends for this platform.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewWithRing wraps an already opened keyring.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only; there is
// no encrypted-file fallback.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' as a fallback: brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// SaveAPIKey stores the key pair, replacing any previous one.
// This method is thread-safe.
func (m *Manager) SaveAPIKey(id, secret string) error {
	data, err := json.Marshal(storedKey{ID: id, Secret: secret})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{
		Key:         KeyAPIKey,
		Data:        data,
		Label:       "BlazeMeter API key",
		Description: "bzm-mcp API key",
	})
}

// LoadAPIKey retrieves the stored key pair.
// This method is thread-safe.
func (m *Manager) LoadAPIKey() (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyAPIKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	if len(it.Data) == 0 {
		return "", "", ErrNotFound
	}
	var k storedKey
	if err := json.Unmarshal(it.Data, &k); err != nil {
		return "", "", err
	}
	return k.ID, k.Secret, nil
}

// Clear removes the stored key pair. A missing item is not an error.
// This method is thread-safe.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(KeyAPIKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
