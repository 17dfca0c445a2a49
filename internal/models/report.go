package models

// SummaryCounts aggregates inquiry totals by status. The in-progress count is
// derivable as Total - Pending - Resolved and is not carried separately.
type SummaryCounts struct {
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Resolved int `db:"resolved" json:"resolved"`
}

// DiseaseCount is one row of the top-diseases grouping. Disease names group
// by exact string match with no case normalisation.
type DiseaseCount struct {
	DiseaseName string `db:"disease_name" json:"disease_name"`
	Count       int    `db:"count" json:"count"`
}

// MonthlyTrend buckets inquiries by calendar month-of-year (1-12),
// irrespective of year.
type MonthlyTrend struct {
	Month    int `db:"month" json:"month"`
	Total    int `db:"total" json:"total"`
	Pending  int `db:"pending" json:"pending"`
	Resolved int `db:"resolved" json:"resolved"`
}

// Cluster is a geographic grouping of geo-tagged inquiries used to colour
// outbreak map bubbles.
type Cluster struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Count           int     `json:"count"`
	DominantDisease string  `json:"dominant_disease"`
}
