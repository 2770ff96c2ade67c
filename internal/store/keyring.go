package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

const serviceName = "unimail"

// KeyringTokenStore persists OAuth2 tokens in the OS keyring, keyed by
// account address.
type KeyringTokenStore struct{}

// NewKeyringTokenStore returns a new KeyringTokenStore.
func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{}
}

// SaveToken stores the OAuth2 token for the given address.
func (k *KeyringTokenStore) SaveToken(address string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(serviceName, address, string(data)); err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken retrieves the OAuth2 token for the given address.
func (k *KeyringTokenStore) LoadToken(address string) (*oauth2.Token, error) {
	data, err := keyring.Get(serviceName, address)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load token from keyring: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return &token, nil
}

// HasToken reports whether a token is stored for address. Keyring
// failures other than a missing entry are returned.
func (k *KeyringTokenStore) HasToken(address string) (bool, error) {
	_, err := k.LoadToken(address)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// DeleteToken removes the OAuth2 token for the given address. A missing
// entry is not an error.
func (k *KeyringTokenStore) DeleteToken(address string) error {
	if err := keyring.Delete(serviceName, address); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
