package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/repository"
)

// ViewStateRepository implements listview.StateRepository for SQLite
type ViewStateRepository struct {
	db *DB
}

// NewViewStateRepository creates a new ViewStateRepository
func NewViewStateRepository(db *DB) *ViewStateRepository {
	return &ViewStateRepository{db: db}
}

// Save inserts or replaces the state of a view
func (r *ViewStateRepository) Save(ctx context.Context, st *listview.SavedState) error {
	raw, err := json.Marshal(st.State)
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}

	query := `
		INSERT INTO view_states (tenant_id, session_id, kind, state, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, session_id, kind)
		DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		st.Key.TenantID,
		st.Key.SessionID,
		st.Key.Kind,
		string(raw),
		st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}
	return nil
}

// Get loads the state of a view
func (r *ViewStateRepository) Get(ctx context.Context, key listview.Key) (*listview.SavedState, error) {
	query := `
		SELECT state, updated_at
		FROM view_states
		WHERE tenant_id = ? AND session_id = ? AND kind = ?
	`
	var raw string
	st := listview.SavedState{Key: key}
	err := r.db.QueryRowContext(ctx, query, key.TenantID, key.SessionID, key.Kind).Scan(&raw, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view state: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &st.State); err != nil {
		return nil, fmt.Errorf("failed to decode view state: %w", err)
	}
	return &st, nil
}

// Delete removes the state of a view
func (r *ViewStateRepository) Delete(ctx context.Context, key listview.Key) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM view_states WHERE tenant_id = ? AND session_id = ? AND kind = ?`,
		key.TenantID, key.SessionID, key.Kind)
	if err != nil {
		return fmt.Errorf("failed to delete view state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
