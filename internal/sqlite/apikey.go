package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and the principal each one
// authenticates as.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Create stores a token for p. Creating the same token twice is a conflict.
func (r *APIKeyRepository) Create(ctx context.Context, token string, p access.Principal, description string) error {
	role := p.Role
	if role == "" {
		role = access.RoleUser
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, username, role, created_at, description) VALUES (?, ?, ?, ?, ?, ?)`,
		HashToken(token), p.TenantID, p.Username, role, time.Now(), description)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolvePrincipal looks up the principal of a token and stamps last_used.
func (r *APIKeyRepository) ResolvePrincipal(ctx context.Context, token string) (access.Principal, error) {
	hash := HashToken(token)

	var p access.Principal
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id, username, role FROM api_keys WHERE key_hash = ?`,
		hash).Scan(&p.TenantID, &p.Username, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Principal{}, repository.ErrNotFound
	}
	if err != nil {
		return access.Principal{}, fmt.Errorf("failed to resolve api key: %w", err)
	}
	if p.Role, err = access.ParseRole(role); err != nil {
		return access.Principal{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return access.Principal{}, fmt.Errorf("failed to touch api key: %w", err)
	}
	return p, nil
}
