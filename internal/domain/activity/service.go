package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// Log satisfies the activity sink other services write through. Failures
// are logged and swallowed so a write never fails on its audit trail.
func (s *Service) Log(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	if err := s.LogActivity(ctx, tenantID, entry); err != nil {
		s.logger.Warn("activity log failed", "tenant_id", tenantID, "type", entryType(entry), "error", err)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	entries, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

func entryType(entry *ActivityEntry) ActivityType {
	if entry == nil {
		return ""
	}
	return entry.ActivityType
}
