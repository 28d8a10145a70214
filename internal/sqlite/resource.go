package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/repository"
)

// ResourceRepository implements resource.Repository for SQLite
type ResourceRepository struct {
	db *DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Create inserts a new resource
func (r *ResourceRepository) Create(ctx context.Context, tenantID string, res *resource.Resource) error {
	data, err := encodeData(res.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (tenant_id, kind, id, data, created_at, updated_at, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		tenantID,
		res.Kind,
		res.ID,
		data,
		res.CreatedAt,
		res.UpdatedAt,
		res.Tick,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}

	res.TenantID = tenantID
	return nil
}

// Get retrieves a resource by kind and ID
func (r *ResourceRepository) Get(ctx context.Context, tenantID string, kind resource.Kind, id string) (*resource.Resource, error) {
	query := `
		SELECT tenant_id, kind, id, data, created_at, updated_at, tick
		FROM resources
		WHERE tenant_id = ? AND kind = ? AND id = ?
	`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, tenantID, kind, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return res, nil
}

// Update replaces the data of an existing resource
func (r *ResourceRepository) Update(ctx context.Context, tenantID string, res *resource.Resource) error {
	data, err := encodeData(res.Data)
	if err != nil {
		return err
	}

	query := `
		UPDATE resources
		SET data = ?, updated_at = ?, tick = ?
		WHERE tenant_id = ? AND kind = ? AND id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		data,
		res.UpdatedAt,
		res.Tick,
		tenantID,
		res.Kind,
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
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

// Delete removes a resource
func (r *ResourceRepository) Delete(ctx context.Context, tenantID string, kind resource.Kind, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM resources WHERE tenant_id = ? AND kind = ? AND id = ?`,
		tenantID, kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
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

// List returns every resource of a collection in creation order
func (r *ResourceRepository) List(ctx context.Context, tenantID string, kind resource.Kind) ([]resource.Resource, error) {
	query := `
		SELECT tenant_id, kind, id, data, created_at, updated_at, tick
		FROM resources
		WHERE tenant_id = ? AND kind = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	list := []resource.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		list = append(list, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*resource.Resource, error) {
	var res resource.Resource
	var data string
	if err := row.Scan(
		&res.TenantID,
		&res.Kind,
		&res.ID,
		&data,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.Tick,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &res.Data); err != nil {
		return nil, fmt.Errorf("failed to decode resource %s: %w", res.ID, err)
	}
	return &res, nil
}

func encodeData(data filter.Record) (string, error) {
	if data == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode resource data: %w", err)
	}
	return string(raw), nil
}
