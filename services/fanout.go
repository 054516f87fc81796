package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/repository"
)

// Broadcast groups. Per-user and per-report groups are derived.
const (
	GroupDashboard  = "dashboard_updates"
	GroupReports    = "report_updates"
	GroupCollectors = "collector_updates"
)

func UserGroup(userID uint) string     { return fmt.Sprintf("user_%d", userID) }
func ReportGroup(reportID uint) string { return fmt.Sprintf("report_%d", reportID) }

// Broadcaster delivers a message to every subscriber of a group.
// Delivery is at-most-once and best-effort; a group with no subscribers
// is not an error.
type Broadcaster interface {
	Publish(group string, message map[string]any)
}

// PushSender is the mobile push transport. Implementations must treat
// missing credentials as a disabled state, not an error.
type PushSender interface {
	Enabled() bool
	Send(ctx context.Context, token, title, body string, data map[string]string) error
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error)
}

// Messages shown to the reporter when their report changes status.
var statusMessages = map[string]string{
	entity.StatusAssigned:   "Your report has been assigned to a collector",
	entity.StatusInProgress: "Collection is now in progress",
	entity.StatusCompleted:  "Your report has been completed!",
	entity.StatusRejected:   "Your report has been rejected",
}

const pushTimeout = 5 * time.Second

// FanoutService computes the interested parties of a committed report
// mutation and dispatches one event per party. Every delivery problem is
// logged and swallowed; the triggering mutation has already committed.
type FanoutService struct {
	broadcaster Broadcaster
	push        PushSender
	users       *repository.UserRepository
	log         zerolog.Logger
}

func NewFanoutService(b Broadcaster, push PushSender, users *repository.UserRepository, log zerolog.Logger) *FanoutService {
	return &FanoutService{
		broadcaster: b,
		push:        push,
		users:       users,
		log:         log.With().Str("component", "fanout").Logger(),
	}
}

func reportData(r *entity.Report) map[string]any {
	data := map[string]any{
		"id":          r.ID,
		"title":       r.Title,
		"status":      r.Status,
		"waste_type":  r.WasteType,
		"latitude":    r.Latitude,
		"longitude":   r.Longitude,
		"address":     r.Address,
		"created_at":  r.CreatedAt.Format(time.RFC3339),
		"reporter_id": r.ReportedByID,
	}
	if r.AssignedToID != nil {
		data["collector_id"] = *r.AssignedToID
	}
	return data
}

// ReportCreated notifies the admin dashboard and the general updates
// channel. Nothing else fires on creation.
func (s *FanoutService) ReportCreated(r *entity.Report) {
	data := reportData(r)

	s.broadcaster.Publish(GroupDashboard, map[string]any{
		"type":   "report_update",
		"report": data,
		"action": "created",
	})
	s.broadcaster.Publish(GroupReports, map[string]any{
		"type":   "report_created",
		"report": data,
	})

	s.pushToCollectors(r)
}

// ReportUpdated fans a committed mutation out to every interested party,
// given the pre-transaction snapshot.
func (s *FanoutService) ReportUpdated(r *entity.Report, prior Snapshot) {
	data := reportData(r)

	s.broadcaster.Publish(GroupDashboard, map[string]any{
		"type":   "report_update",
		"report": data,
		"action": "updated",
	})

	if r.ReportedByID != 0 {
		s.broadcaster.Publish(UserGroup(r.ReportedByID), map[string]any{
			"type":   "report_updated",
			"report": data,
		})
	}

	assigneeChanged := r.AssignedToID != nil &&
		(prior.AssignedToID == nil || *prior.AssignedToID != *r.AssignedToID)
	statusChanged := prior.Status != "" && r.Status != prior.Status

	if assigneeChanged {
		collectorID := *r.AssignedToID

		s.broadcaster.Publish(UserGroup(collectorID), map[string]any{
			"type": "task_update",
			"task": data,
		})
		s.broadcaster.Publish(GroupCollectors, map[string]any{
			"type":         "report_assigned",
			"report":       data,
			"collector_id": collectorID,
		})
		s.broadcaster.Publish(UserGroup(collectorID), map[string]any{
			"type":    "notification",
			"title":   "New Task Assigned",
			"message": "You have been assigned to: " + r.Title,
			"data":    map[string]any{"report_id": r.ID},
		})

		s.pushNewAssignment(collectorID, r)
	}

	// When the status change is the assignment itself, the collector
	// notification above already covers it.
	if statusChanged && !assigneeChanged && r.ReportedByID != 0 {
		message, ok := statusMessages[r.Status]
		if !ok {
			message = "Status changed to " + r.Status
		}
		s.broadcaster.Publish(UserGroup(r.ReportedByID), map[string]any{
			"type":    "notification",
			"title":   "Report Status Updated",
			"message": message,
			"data":    map[string]any{"report_id": r.ID, "status": r.Status},
		})
	}

	s.broadcaster.Publish(ReportGroup(r.ID), map[string]any{
		"type":   "report_updated",
		"report": data,
	})

	if statusChanged {
		s.pushStatusUpdate(r)
	}
}

func (s *FanoutService) pushToCollectors(r *entity.Report) {
	if s.push == nil || !s.push.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	err := s.push.SendToTopic(ctx, "collectors", "New Report Nearby",
		fmt.Sprintf("A new %s report was submitted: %s", r.WasteType, r.Title),
		map[string]string{"type": "new_report", "report_id": fmt.Sprint(r.ID)})
	if err != nil {
		s.log.Warn().Err(err).Uint("report", r.ID).Msg("push to collectors topic failed")
	}
}

func (s *FanoutService) pushNewAssignment(collectorID uint, r *entity.Report) {
	if s.push == nil || !s.push.Enabled() {
		return
	}
	collector, err := s.users.FindByID(collectorID)
	if err != nil || collector.FCMToken == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	err = s.push.Send(ctx, collector.FCMToken, "New Task Assigned",
		"You have been assigned to collect: "+r.Title,
		map[string]string{"type": "new_assignment", "report_id": fmt.Sprint(r.ID)})
	if err != nil {
		s.log.Warn().Err(err).Uint("collector", collectorID).Msg("assignment push failed")
	}
}

func (s *FanoutService) pushStatusUpdate(r *entity.Report) {
	if s.push == nil || !s.push.Enabled() {
		return
	}
	reporter, err := s.users.FindByID(r.ReportedByID)
	if err != nil || reporter.FCMToken == "" {
		return
	}
	message, ok := statusMessages[r.Status]
	if !ok {
		message = "Status changed to " + r.Status
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	err = s.push.Send(ctx, reporter.FCMToken, "Report Status Updated",
		fmt.Sprintf("Your report %q: %s", r.Title, message),
		map[string]string{"type": "status_update", "report_id": fmt.Sprint(r.ID), "status": r.Status})
	if err != nil {
		s.log.Warn().Err(err).Uint("reporter", r.ReportedByID).Msg("status push failed")
	}
}
