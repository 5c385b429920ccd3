package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/daypoints/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names one of the values daypoints keeps in the OS keyring.
type Secret string

const (
	// SecretDatabase is the PostgreSQL connection string.
	SecretDatabase Secret = constants.DefaultKeyringUser
	// SecretGenAI is the API key for the chat model.
	SecretGenAI Secret = "genai-api-key"
)

// ParseSecret maps CLI names to secrets.
func ParseSecret(name string) (Secret, error) {
	switch name {
	case "db", "database", string(SecretDatabase):
		return SecretDatabase, nil
	case "genai", "chat", string(SecretGenAI):
		return SecretGenAI, nil
	}
	return "", fmt.Errorf("unknown secret %q (want db or genai)", name)
}

// Get reads a secret. Returns ErrNotFound if nothing is stored.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret, replacing any previous value.
func Set(secret Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", secret)
	}
	if err := keyring.Set(constants.AppName, string(secret), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}
	return nil
}

// Delete removes a secret.
func Delete(secret Secret) error {
	err := keyring.Delete(constants.AppName, string(secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
func GetConnectionString() (string, error) {
	return Get(SecretDatabase)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return Set(SecretDatabase, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return Delete(SecretDatabase)
}

// IsAvailable is a best-effort check that the OS keyring answers reads.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
