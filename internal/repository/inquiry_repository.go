package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrovigil/agrovigil-api/internal/models"
)

const inquiryColumns = "id, owner_id, full_name, email, location, contact_number, plant_name, disease_name, issue_description, latitude, longitude, image_path, status, reply, requested_at"

// InquiryRepository provides database access for farmer inquiries.
type InquiryRepository struct {
	db *sqlx.DB
}

// NewInquiryRepository creates a new instance of InquiryRepository.
func NewInquiryRepository(db *sqlx.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create inserts a new inquiry.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.RequestedAt.IsZero() {
		inquiry.RequestedAt = time.Now().UTC()
	}

	const query = `INSERT INTO inquiries (id, owner_id, full_name, email, location, contact_number, plant_name, disease_name, issue_description, latitude, longitude, image_path, status, reply, requested_at) VALUES (:id, :owner_id, :full_name, :email, :location, :contact_number, :plant_name, :disease_name, :issue_description, :latitude, :longitude, :image_path, :status, :reply, :requested_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inquiry); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

// FindByID returns an inquiry by identifier.
func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*models.Inquiry, error) {
	query := fmt.Sprintf("SELECT %s FROM inquiries WHERE id = $1 LIMIT 1", inquiryColumns)
	var inquiry models.Inquiry
	if err := r.db.GetContext(ctx, &inquiry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find inquiry by id: %w", err)
	}
	return &inquiry, nil
}

// ListByOwner returns every inquiry owned by the given user, unfiltered by
// status.
func (r *InquiryRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Inquiry, error) {
	query := fmt.Sprintf("SELECT %s FROM inquiries WHERE owner_id = $1 ORDER BY requested_at DESC", inquiryColumns)
	var inquiries []models.Inquiry
	if err := r.db.SelectContext(ctx, &inquiries, query, ownerID); err != nil {
		return nil, fmt.Errorf("list inquiries by owner: %w", err)
	}
	return inquiries, nil
}

// ListAll returns every inquiry in the store.
func (r *InquiryRepository) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	query := fmt.Sprintf("SELECT %s FROM inquiries ORDER BY requested_at DESC", inquiryColumns)
	var inquiries []models.Inquiry
	if err := r.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, nil
}

// ListFiltered returns inquiries matching every present filter. The search
// term matches case-insensitively as a substring of the plant name, disease
// name or issue description. The date applies as a calendar-day window in
// server-local time.
func (r *InquiryRepository) ListFiltered(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM inquiries WHERE 1=1", inquiryColumns))
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		builder.WriteString(fmt.Sprintf(" AND status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		builder.WriteString(fmt.Sprintf(" AND (LOWER(plant_name) LIKE $%d OR LOWER(disease_name) LIKE $%d OR LOWER(issue_description) LIKE $%d)", len(args), len(args), len(args)))
	}
	if filter.Date != nil {
		day := *filter.Date
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
		args = append(args, start)
		builder.WriteString(fmt.Sprintf(" AND requested_at >= $%d", len(args)))
		args = append(args, start.AddDate(0, 0, 1))
		builder.WriteString(fmt.Sprintf(" AND requested_at < $%d", len(args)))
	}
	builder.WriteString(" ORDER BY requested_at DESC")

	var inquiries []models.Inquiry
	if err := r.db.SelectContext(ctx, &inquiries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list filtered inquiries: %w", err)
	}
	return inquiries, nil
}

// Update overwrites the owner-editable content fields. Status, reply, image
// and ownership are untouched.
func (r *InquiryRepository) Update(ctx context.Context, inquiry *models.Inquiry) error {
	const query = `UPDATE inquiries SET full_name = :full_name, email = :email, location = :location, contact_number = :contact_number, plant_name = :plant_name, disease_name = :disease_name, issue_description = :issue_description, latitude = :latitude, longitude = :longitude WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, inquiry); err != nil {
		return fmt.Errorf("update inquiry: %w", err)
	}
	return nil
}

// Delete removes an inquiry permanently. No soft delete, no cascade.
func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inquiries WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStatus assigns the status field. Last writer wins; the store provides
// no version check.
func (r *InquiryRepository) SetStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	const query = `UPDATE inquiries SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set inquiry status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetReply assigns or clears the reply field. A nil reply stores NULL, which
// is distinct from an empty string.
func (r *InquiryRepository) SetReply(ctx context.Context, id string, reply *string) error {
	const query = `UPDATE inquiries SET reply = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, reply)
	if err != nil {
		return fmt.Errorf("set inquiry reply: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
