// Package secrets stores plugin credentials in a sealed file.
//
// The file is encrypted with nacl secretbox under a 32-byte key kept in a
// separate key file. Inability to open the store is fatal to a refresh
// run: plugins must never silently run without their credentials.
package secrets

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

var (
	// ErrNotFound is returned when a plugin has no stored credentials.
	ErrNotFound = errors.New("no credentials stored for plugin")
	// ErrCorrupt is returned when the sealed file fails to authenticate,
	// meaning it was tampered with or the key is wrong.
	ErrCorrupt = errors.New("sealed secrets file failed to authenticate")
)

// Store holds decrypted plugin credentials for the duration of a run.
type Store struct {
	plugins map[string]map[string]string
}

// GenerateKey writes a fresh random key to path, refusing to overwrite an
// existing one.
func GenerateKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

func readKey(path string) (*[keySize]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("key file %s is %d bytes, want %d", path, len(raw), keySize)
	}
	var key [keySize]byte
	copy(key[:], raw)
	return &key, nil
}

// Open decrypts the sealed file at path with the key at keyPath. A missing
// sealed file yields an empty store; a present file that fails to
// authenticate is an error.
func Open(path, keyPath string) (*Store, error) {
	key, err := readKey(keyPath)
	if err != nil {
		return nil, err
	}

	sealed, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Store{plugins: make(map[string]map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sealed file: %w", err)
	}
	if len(sealed) < nonceSize {
		return nil, ErrCorrupt
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrCorrupt
	}

	plugins := make(map[string]map[string]string)
	if err := json.Unmarshal(plain, &plugins); err != nil {
		return nil, fmt.Errorf("failed to decode secrets: %w", err)
	}
	return &Store{plugins: plugins}, nil
}

// Seal encrypts the store and writes it to path.
func (s *Store) Seal(path, keyPath string) error {
	key, err := readKey(keyPath)
	if err != nil {
		return err
	}

	plain, err := json.Marshal(s.plugins)
	if err != nil {
		return fmt.Errorf("failed to encode secrets: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plain, &nonce, key)
	if err := os.WriteFile(path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write sealed file: %w", err)
	}
	return nil
}

// Plugin returns the credential map for the named plugin.
func (s *Store) Plugin(name string) (map[string]string, error) {
	creds, ok := s.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return creds, nil
}

// Set replaces the credential map for the named plugin.
func (s *Store) Set(name string, creds map[string]string) {
	s.plugins[name] = creds
}

// Names returns the plugins with stored credentials.
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.plugins))
	for name := range s.plugins {
		out = append(out, name)
	}
	return out
}
