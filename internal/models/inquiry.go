package models

import "time"

// InquiryStatus is the closed set of triage states for an inquiry.
// Any value outside the set is rejected at the boundary; managers may assign
// any of the three values at any time, there is no transition ordering.
type InquiryStatus string

const (
	StatusPending    InquiryStatus = "Pending"
	StatusInProgress InquiryStatus = "In Progress"
	StatusResolved   InquiryStatus = "Resolved"
)

// Valid reports whether the status belongs to the closed set.
func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// Inquiry is a farmer-submitted plant disease report. The contact fields are
// a snapshot captured at submission time, independent of the owner's profile.
type Inquiry struct {
	ID               string        `db:"id" json:"id"`
	OwnerID          string        `db:"owner_id" json:"owner_id"`
	FullName         string        `db:"full_name" json:"fullname"`
	Email            string        `db:"email" json:"email"`
	Location         string        `db:"location" json:"location"`
	ContactNumber    string        `db:"contact_number" json:"contact_number"`
	PlantName        string        `db:"plant_name" json:"plant_name"`
	DiseaseName      string        `db:"disease_name" json:"disease_name"`
	IssueDescription string        `db:"issue_description" json:"issue_description"`
	Latitude         *float64      `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64      `db:"longitude" json:"longitude,omitempty"`
	ImagePath        string        `db:"image_path" json:"image"`
	Status           InquiryStatus `db:"status" json:"status"`
	Reply            *string       `db:"reply" json:"reply,omitempty"`
	RequestedAt      time.Time     `db:"requested_at" json:"requested_at"`
}

// InquiryFilter captures the manager-side list filters. All present filters
// combine with logical AND.
type InquiryFilter struct {
	Status *InquiryStatus
	Search string
	Date   *time.Time
}
