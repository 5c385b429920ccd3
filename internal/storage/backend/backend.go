// Package backend chooses and constructs a storage.Provider from the
// configured database setting.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daypoints/internal/keyring"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/storage"
	"github.com/julianstephens/daypoints/internal/storage/postgres"
	"github.com/julianstephens/daypoints/internal/storage/sqlite"
)

// KeyringDSN makes Open read the connection string from the OS keyring.
const KeyringDSN = "keyring"

// ErrEmbeddedCredentials is returned for postgres URLs that carry a password.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed; store it with 'daypoints keyring set db' or use .pgpass")

// IsPostgres reports whether dsn names a PostgreSQL database.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname=")
}

// Resolve turns the configured value into a concrete DSN or file path.
// Connection strings read from the keyring may carry a password.
func Resolve(dsn string) (resolved string, fromKeyring bool, err error) {
	if dsn == KeyringDSN {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return "", true, fmt.Errorf("reading database connection from keyring: %w", err)
		}
		return connStr, true, nil
	}
	if IsPostgres(dsn) {
		return dsn, false, nil
	}
	return kong.ExpandPath(dsn), false, nil
}

// Open constructs, but does not Load or Init, the provider for dsn.
func Open(dsn string) (storage.Provider, error) {
	resolved, fromKeyring, err := Resolve(dsn)
	if err != nil {
		return nil, err
	}

	if IsPostgres(resolved) {
		if !fromKeyring {
			if _, err := postgres.ValidateConnString(resolved); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, ErrEmbeddedCredentials
				}
				return nil, err
			}
		}
		logger.Debug("Using PostgreSQL backend", "keyring", fromKeyring)
		return postgres.New(resolved), nil
	}

	logger.Debug("Using SQLite backend", "path", resolved)
	return sqlite.NewStore(resolved), nil
}
