package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maale/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedDefaultAdmin creates the default administrator credential when the
// store is empty, hashing the fixed default secret.
func (db *DB) SeedDefaultAdmin(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count credentials: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := db.UpsertCredential(ctx, models.DefaultAdminUsername, models.DefaultAdminSecret, models.RoleAdmin); err != nil {
		return err
	}
	db.log.Info().Str("username", models.DefaultAdminUsername).Msg("seeded default administrator")
	return nil
}

// UpsertCredential stores a credential with a bcrypt hash of the secret.
func (db *DB) UpsertCredential(ctx context.Context, username, secret string, role models.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO credentials (username, secret_hash, role) VALUES (?, ?, ?)
         ON CONFLICT(username) DO UPDATE SET secret_hash = excluded.secret_hash, role = excluded.role`,
		username, string(hash), string(role),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

// GetCredential returns the stored credential for a username.
func (db *DB) GetCredential(ctx context.Context, username string) (*models.Credential, error) {
	var c models.Credential
	var role string
	err := db.QueryRowContext(ctx,
		`SELECT username, secret_hash, role FROM credentials WHERE username = ?`, username).
		Scan(&c.Username, &c.SecretHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	c.Role = models.Role(role)
	return &c, nil
}
