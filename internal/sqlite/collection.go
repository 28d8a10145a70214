package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/listview/internal/domain/resource"
)

// CollectionRepository implements resource.CollectionRepository for SQLite
type CollectionRepository struct {
	db *DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// IncrementTick atomically increments the collection tick and returns the new value
func (r *CollectionRepository) IncrementTick(ctx context.Context, tenantID string, kind resource.Kind) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO collections (tenant_id, kind, tick)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, kind) DO UPDATE SET tick = tick + 1
	`
	if _, err := tx.ExecContext(ctx, upsert, tenantID, kind); err != nil {
		return 0, fmt.Errorf("failed to increment tick: %w", err)
	}

	var newTick int64
	err = tx.QueryRowContext(ctx,
		`SELECT tick FROM collections WHERE tenant_id = ? AND kind = ?`,
		tenantID, kind).Scan(&newTick)
	if err != nil {
		return 0, fmt.Errorf("failed to get new tick: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return newTick, nil
}

// GetTick returns the collection tick; a collection never written is at 0
func (r *CollectionRepository) GetTick(ctx context.Context, tenantID string, kind resource.Kind) (int64, error) {
	var tick int64
	err := r.db.QueryRowContext(ctx,
		`SELECT tick FROM collections WHERE tenant_id = ? AND kind = ?`,
		tenantID, kind).Scan(&tick)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get tick: %w", err)
	}
	return tick, nil
}
