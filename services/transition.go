package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
	"github.com/igRoy3/SmartWasteManagement/repository"
)

type move struct{ from, to string }

// Collector moves on reports assigned to them. Re-applying the current
// status is allowed and still appends a history row.
var collectorMoves = map[move]bool{
	{entity.StatusAssigned, entity.StatusInProgress}:   true,
	{entity.StatusInProgress, entity.StatusCompleted}:  true,
	{entity.StatusInProgress, entity.StatusInProgress}: true,
	{entity.StatusCompleted, entity.StatusCompleted}:   true,
}

// CanTransition is the single authority table for status changes.
// Admins may assign or reject from any state; collectors may progress
// their own reports; citizens have no write authority.
func CanTransition(role, from, to string, isAssignee bool) bool {
	switch role {
	case entity.RoleAdmin:
		return to == entity.StatusAssigned || to == entity.StatusRejected
	case entity.RoleCollector:
		return isAssignee && collectorMoves[move{from, to}]
	default:
		return false
	}
}

// Snapshot is the report's state before a mutation, captured inside the
// transaction that performs it and handed to the fanout afterwards.
type Snapshot struct {
	Status       string
	AssignedToID *uint
}

type TransitionService struct {
	DB     *gorm.DB
	Repo   *repository.ReportRepository
	Tasks  *repository.TaskRepository
	Users  *repository.UserRepository
	Fanout *FanoutService
}

func NewTransitionService(
	db *gorm.DB,
	repo *repository.ReportRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	fanout *FanoutService,
) *TransitionService {
	return &TransitionService{DB: db, Repo: repo, Tasks: tasks, Users: users, Fanout: fanout}
}

// Apply validates and applies a status change. The report mutation, the
// history row and the task sync are one transaction; fanout runs only
// after commit.
func (s *TransitionService) Apply(reportID uint, newStatus string, actor *entity.User, note string) (*entity.Report, error) {
	if !entity.ValidStatus(newStatus) {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", newStatus))
	}

	var report *entity.Report
	var prior Snapshot

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.Repo.FindByIDTx(tx, reportID)
		if err != nil {
			return err
		}
		prior = Snapshot{Status: r.Status, AssignedToID: r.AssignedToID}

		isAssignee := r.AssignedToID != nil && *r.AssignedToID == actor.ID
		if !CanTransition(actor.Role, r.Status, newStatus, isAssignee) {
			return apperr.Unauthorizedf("%s may not move report from %s to %s", actor.Role, r.Status, newStatus)
		}

		now := time.Now()
		updates := map[string]any{"status": newStatus, "updated_at": now}
		if newStatus == entity.StatusCompleted && r.CompletedAt == nil {
			updates["completed_at"] = now
		}

		affected, err := s.Repo.UpdateGuarded(tx, r.ID, prior.Status, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			// a concurrent transition won the race
			return apperr.ErrConflict
		}

		if err := s.Repo.AppendUpdate(tx, &entity.StatusUpdate{
			ReportID:    r.ID,
			Status:      newStatus,
			Note:        note,
			UpdatedByID: actor.ID,
		}); err != nil {
			return err
		}

		if err := s.syncTask(tx, r.ID, newStatus, note, now); err != nil {
			return err
		}

		r.Status = newStatus
		r.UpdatedAt = now
		if t, ok := updates["completed_at"].(time.Time); ok {
			r.CompletedAt = &t
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Fanout.ReportUpdated(report, prior)
	return report, nil
}

// AssignCollector is the admin assignment path: sets the assignee, moves
// the report to assigned and creates (or retargets) its collection task.
func (s *TransitionService) AssignCollector(reportID, collectorID uint, actor *entity.User, note, priority string) (*entity.Report, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, apperr.Unauthorizedf("%s may not assign collectors", actor.Role)
	}
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, apperr.Validation("priority", fmt.Sprintf("unknown priority %q", priority))
	}

	collector, err := s.Users.FindByID(collectorID)
	if err != nil {
		return nil, err
	}
	if collector.Role != entity.RoleCollector {
		return nil, apperr.Validation("collectorId", "selected user is not a collector")
	}

	if note == "" {
		note = "Assigned to " + collector.FullName()
	}

	var report *entity.Report
	var prior Snapshot

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.Repo.FindByIDTx(tx, reportID)
		if err != nil {
			return err
		}
		prior = Snapshot{Status: r.Status, AssignedToID: r.AssignedToID}

		if !CanTransition(actor.Role, r.Status, entity.StatusAssigned, false) {
			return apperr.Unauthorizedf("%s may not move report from %s to %s", actor.Role, r.Status, entity.StatusAssigned)
		}

		now := time.Now()
		affected, err := s.Repo.UpdateGuarded(tx, r.ID, prior.Status, map[string]any{
			"status":         entity.StatusAssigned,
			"assigned_to_id": collectorID,
			"updated_at":     now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.ErrConflict
		}

		if err := s.Repo.AppendUpdate(tx, &entity.StatusUpdate{
			ReportID:    r.ID,
			Status:      entity.StatusAssigned,
			Note:        note,
			UpdatedByID: actor.ID,
		}); err != nil {
			return err
		}

		adminID := actor.ID
		if err := s.Tasks.UpsertForReport(tx, &entity.CollectionTask{
			ReportID:     r.ID,
			CollectorID:  collectorID,
			AssignedByID: &adminID,
			Priority:     priority,
			Notes:        note,
		}); err != nil {
			return err
		}

		r.Status = entity.StatusAssigned
		r.AssignedToID = &collectorID
		r.UpdatedAt = now
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Fanout.ReportUpdated(report, prior)
	return report, nil
}

func (s *TransitionService) syncTask(tx *gorm.DB, reportID uint, newStatus, note string, now time.Time) error {
	switch newStatus {
	case entity.StatusInProgress:
		return s.Tasks.UpdateStatusForReport(tx, reportID, map[string]any{
			"status":     entity.TaskInProgress,
			"started_at": now,
		})
	case entity.StatusCompleted:
		return s.Tasks.UpdateStatusForReport(tx, reportID, map[string]any{
			"status":           entity.TaskCompleted,
			"completed_at":     now,
			"completion_notes": note,
		})
	case entity.StatusRejected:
		return s.Tasks.UpdateStatusForReport(tx, reportID, map[string]any{
			"status": entity.TaskCancelled,
		})
	}
	return nil
}
