package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrovigil/agrovigil-api/internal/models"
)

// ActivityRepository stores best-effort activity log entries.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create stores an activity log entry. Callers treat failures as
// non-fatal: there is no transaction tying a log entry to the write it
// describes.
func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO activity_logs (id, user_id, action, resource, resource_id, detail, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :detail, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}

// ListRecent returns the most recent entries, newest first.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT id, user_id, action, resource, resource_id, detail, ip_address, user_agent, created_at FROM activity_logs ORDER BY created_at DESC LIMIT $1`
	var entries []models.ActivityLog
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return entries, nil
}
