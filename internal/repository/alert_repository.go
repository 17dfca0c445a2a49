package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrovigil/agrovigil-api/internal/models"
)

const alertColumns = "id, disease_name, location, severity, report_count, detected_at, description, visible, created_by, created_at, updated_at"

// AlertRepository provides database access for outbreak alerts.
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository creates a new instance of AlertRepository.
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new alert.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = now
	}
	alert.UpdatedAt = now

	const query = `INSERT INTO alerts (id, disease_name, location, severity, report_count, detected_at, description, visible, created_by, created_at, updated_at) VALUES (:id, :disease_name, :location, :severity, :report_count, :detected_at, :description, :visible, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, alert); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// FindByID returns an alert by identifier.
func (r *AlertRepository) FindByID(ctx context.Context, id string) (*models.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE id = $1 LIMIT 1", alertColumns)
	var alert models.Alert
	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find alert by id: %w", err)
	}
	return &alert, nil
}

// List returns alerts newest first, optionally restricted to visible ones.
func (r *AlertRepository) List(ctx context.Context, visibleOnly bool) ([]models.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts", alertColumns)
	if visibleOnly {
		query += " WHERE visible = TRUE"
	}
	query += " ORDER BY detected_at DESC"

	var alerts []models.Alert
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// Update overwrites the mutable alert fields.
func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	alert.UpdatedAt = time.Now().UTC()
	const query = `UPDATE alerts SET disease_name = :disease_name, location = :location, severity = :severity, report_count = :report_count, detected_at = :detected_at, description = :description, visible = :visible, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, alert); err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// Delete removes an alert permanently.
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM alerts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
