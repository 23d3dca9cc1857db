package auth

import (
	"crypto/subtle"

	"qrlinks/internal/config"
)

// CredentialStore holds the single configured admin identity.
// There is no user table; the service has exactly one administrator,
// loaded from configuration at process start.
type CredentialStore struct {
	username string
	password string
}

// NewCredentialStore builds the store from validated configuration.
func NewCredentialStore(cfg *config.Config) *CredentialStore {
	return &CredentialStore{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
	}
}

// Authenticate validates a username/password pair in constant time, so
// response timing leaks nothing about either value.
func (s *CredentialStore) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	return userOK && passOK
}
