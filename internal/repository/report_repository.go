package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/agrovigil/agrovigil-api/internal/models"
)

// ReportRepository exposes read-only aggregation queries over the inquiries
// table for the manager dashboards.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SummaryCounts returns total/pending/resolved inquiry counts.
func (r *ReportRepository) SummaryCounts(ctx context.Context) (*models.SummaryCounts, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
        COUNT(*) FILTER (WHERE status = 'Resolved') AS resolved
        FROM inquiries`
	var counts models.SummaryCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("query summary counts: %w", err)
	}
	return &counts, nil
}

// TopDiseases groups inquiries by exact disease name and returns the most
// frequent entries, count descending. Grouping is case-sensitive: "Blight"
// and "blight" count separately.
func (r *ReportRepository) TopDiseases(ctx context.Context, limit int) ([]models.DiseaseCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT disease_name, COUNT(*) AS count FROM inquiries GROUP BY disease_name ORDER BY count DESC LIMIT $1`
	var counts []models.DiseaseCount
	if err := r.db.SelectContext(ctx, &counts, query, limit); err != nil {
		return nil, fmt.Errorf("query top diseases: %w", err)
	}
	return counts, nil
}

// MonthlyTrend buckets inquiries by calendar month-of-year, irrespective of
// year, ascending by month number.
func (r *ReportRepository) MonthlyTrend(ctx context.Context) ([]models.MonthlyTrend, error) {
	const query = `SELECT EXTRACT(MONTH FROM requested_at)::INT AS month,
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
        COUNT(*) FILTER (WHERE status = 'Resolved') AS resolved
        FROM inquiries GROUP BY month ORDER BY month ASC`
	var trend []models.MonthlyTrend
	if err := r.db.SelectContext(ctx, &trend, query); err != nil {
		return nil, fmt.Errorf("query monthly trend: %w", err)
	}
	return trend, nil
}

// ListGeoTagged returns every inquiry carrying coordinates, for cluster
// computation.
func (r *ReportRepository) ListGeoTagged(ctx context.Context) ([]models.Inquiry, error) {
	query := fmt.Sprintf("SELECT %s FROM inquiries WHERE latitude IS NOT NULL AND longitude IS NOT NULL", inquiryColumns)
	var inquiries []models.Inquiry
	if err := r.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, fmt.Errorf("list geo-tagged inquiries: %w", err)
	}
	return inquiries, nil
}
