package entity

import (
	"gorm.io/gorm"
)

// StatusUpdate is the append-only audit trail of a report. Rows are written
// in the same transaction as the report mutation and never modified after.
type StatusUpdate struct {
	gorm.Model
	ReportID uint   `gorm:"not null;index" json:"reportId"`
	Report   Report `json:"-"`

	Status string `gorm:"not null" json:"status"`
	Note   string `json:"note"`

	UpdatedByID uint `gorm:"not null" json:"updatedById"`
	UpdatedBy   User `json:"-"`
}
