package entity

import (
	"time"

	"gorm.io/gorm"
)

// Report statuses. The transition engine owns which moves are legal.
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

const (
	WasteOrganic    = "organic"
	WasteRecyclable = "recyclable"
	WasteHazardous  = "hazardous"
	WasteElectronic = "electronic"
	WasteMixed      = "mixed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

func ValidWasteType(t string) bool {
	switch t {
	case WasteOrganic, WasteRecyclable, WasteHazardous, WasteElectronic, WasteMixed:
		return true
	}
	return false
}

type Report struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	WasteType   string `gorm:"not null;default:mixed" json:"wasteType"`

	Latitude  float64 `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(9,6)" json:"longitude"`
	Address   string  `json:"address"`

	Image string `json:"image"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	ReportedByID uint `gorm:"not null" json:"reportedById"`
	ReportedBy   User `json:"-"`

	AssignedToID *uint `json:"assignedToId,omitempty"`
	AssignedTo   *User `json:"-"`

	// set exactly once, when the report first enters completed
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Updates  []StatusUpdate  `json:"updates,omitempty"`
	Comments []ReportComment `json:"comments,omitempty"`
}
