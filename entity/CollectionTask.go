package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskAssigned   = "assigned"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// CollectionTask is the collector-facing work item behind an assigned
// report. One task per report; its status follows the report's transitions.
type CollectionTask struct {
	gorm.Model
	ReportID uint   `gorm:"not null;uniqueIndex" json:"reportId"`
	Report   Report `json:"-"`

	CollectorID uint `gorm:"not null;index" json:"collectorId"`
	Collector   User `json:"-"`

	AssignedByID *uint `json:"assignedById,omitempty"`
	AssignedBy   *User `json:"-"`

	Status   string `gorm:"not null;default:assigned" json:"status"`
	Priority string `gorm:"not null;default:medium" json:"priority"`

	Notes           string `json:"notes"`
	CompletionNotes string `json:"completionNotes"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
