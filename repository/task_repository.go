package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// UpsertForReport creates the report's task or retargets an existing one at
// a new collector. Runs in the assignment transaction.
func (r *TaskRepository) UpsertForReport(tx *gorm.DB, task *entity.CollectionTask) error {
	var existing entity.CollectionTask
	err := tx.Where("report_id = ?", task.ReportID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(task).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&existing).Updates(map[string]any{
		"collector_id":   task.CollectorID,
		"assigned_by_id": task.AssignedByID,
		"status":         entity.TaskAssigned,
		"priority":       task.Priority,
		"notes":          task.Notes,
		"started_at":     nil,
		"completed_at":   nil,
	}).Error
}

// UpdateStatusForReport keeps the task row in step with its report's
// transition. A report without a task (never assigned) is not an error.
func (r *TaskRepository) UpdateStatusForReport(tx *gorm.DB, reportID uint, updates map[string]any) error {
	return tx.Model(&entity.CollectionTask{}).Where("report_id = ?", reportID).Updates(updates).Error
}

func (r *TaskRepository) FindByReport(reportID uint) (*entity.CollectionTask, error) {
	var task entity.CollectionTask
	if err := r.db.Where("report_id = ?", reportID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindAll(status, priority string, out *[]entity.CollectionTask) error {
	q := r.db.Model(&entity.CollectionTask{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if priority != "" {
		q = q.Where("priority = ?", priority)
	}
	return q.Order("created_at DESC").Find(out).Error
}

func (r *TaskRepository) FindByCollector(collectorID uint, status string, out *[]entity.CollectionTask) error {
	q := r.db.Where("collector_id = ?", collectorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Order("created_at DESC").Find(out).Error
}
