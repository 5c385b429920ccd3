package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/keyring"
	"github.com/julianstephens/daypoints/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret (db connection string or genai API key)."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available." default:"1"`
}

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" enum:"db,genai" help:"Which secret: db or genai."`
	Value  string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	if secret == keyring.SecretDatabase {
		if !strings.HasPrefix(cmd.Value, "postgres://") &&
			!strings.HasPrefix(cmd.Value, "postgresql://") &&
			!strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
				ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
			} else {
				return fmt.Errorf("invalid connection string: %w", err)
			}
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return err
	}

	ctx.Printf("✓ %s stored in OS keyring\n", secret)
	if secret == keyring.SecretDatabase {
		ctx.Println("  Use it with DAYPOINTS_DB=keyring or --db keyring")
	}
	return nil
}

// KeyringGetCmd shows a secret with its sensitive part masked
type KeyringGetCmd struct {
	Secret string `arg:"" enum:"db,genai" help:"Which secret: db or genai."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'daypoints keyring set %s' to store one", secret, cmd.Secret)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", secret, err)
	}

	if secret == keyring.SecretDatabase {
		ctx.Println(maskPassword(value))
	} else {
		ctx.Println(maskKey(value))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Secret string `arg:"" enum:"db,genai" help:"Which secret: db or genai."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return err
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")
	for _, secret := range []keyring.Secret{keyring.SecretDatabase, keyring.SecretGenAI} {
		if _, err := keyring.Get(secret); err == nil {
			ctx.Printf("✓ %s is stored\n", secret)
		} else {
			ctx.Printf("ℹ %s is not stored\n", secret)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host.
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
