package models

import "time"

// AlertSeverity grades a disease outbreak broadcast.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "Low"
	SeverityMedium   AlertSeverity = "Medium"
	SeverityHigh     AlertSeverity = "High"
	SeverityCritical AlertSeverity = "Critical"
)

// Valid reports whether the severity belongs to the closed set.
func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Alert is a manager-authored disease-outbreak broadcast. Its lifecycle is
// unrelated to any particular inquiry.
type Alert struct {
	ID          string        `db:"id" json:"id"`
	DiseaseName string        `db:"disease_name" json:"disease_name"`
	Location    string        `db:"location" json:"location"`
	Severity    AlertSeverity `db:"severity" json:"severity"`
	ReportCount int           `db:"report_count" json:"report_count"`
	DetectedAt  time.Time     `db:"detected_at" json:"detected_at"`
	Description string        `db:"description" json:"description"`
	Visible     bool          `db:"visible" json:"visible"`
	CreatedBy   string        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}
