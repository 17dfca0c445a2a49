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

const materialColumns = "id, name, category, usage_tags, instructions, unit, price, supplier_name, supplier_contact, image_path, created_at, updated_at"

// MaterialRepository provides database access for the materials catalog.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository creates a new instance of MaterialRepository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if material.CreatedAt.IsZero() {
		material.CreatedAt = now
	}
	material.UpdatedAt = now

	const query = `INSERT INTO materials (id, name, category, usage_tags, instructions, unit, price, supplier_name, supplier_contact, image_path, created_at, updated_at) VALUES (:id, :name, :category, :usage_tags, :instructions, :unit, :price, :supplier_name, :supplier_contact, :image_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// FindByID returns a material by identifier.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	query := fmt.Sprintf("SELECT %s FROM materials WHERE id = $1 LIMIT 1", materialColumns)
	var material models.Material
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find material by id: %w", err)
	}
	return &material, nil
}

// List returns materials, optionally filtered by category or a
// case-insensitive name search.
func (r *MaterialRepository) List(ctx context.Context, category *models.MaterialCategory, search string) ([]models.Material, error) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("SELECT %s FROM materials WHERE 1=1", materialColumns))
	var args []interface{}

	if category != nil {
		args = append(args, *category)
		builder.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		builder.WriteString(fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)))
	}
	builder.WriteString(" ORDER BY name ASC")

	var materials []models.Material
	if err := r.db.SelectContext(ctx, &materials, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}

// Update overwrites the mutable material fields.
func (r *MaterialRepository) Update(ctx context.Context, material *models.Material) error {
	material.UpdatedAt = time.Now().UTC()
	const query = `UPDATE materials SET name = :name, category = :category, usage_tags = :usage_tags, instructions = :instructions, unit = :unit, price = :price, supplier_name = :supplier_name, supplier_contact = :supplier_contact, image_path = :image_path, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// Delete removes a material permanently.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM materials WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
