package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

func TestFanoutReportCreated(t *testing.T) {
	env := newTestEnv(t)
	citizen := seedUser(t, env.db, entity.RoleCitizen)
	report := seedReport(t, env.db, citizen.ID, entity.StatusPending, nil)

	env.fanout.ReportCreated(report)

	require.Len(t, env.broadcaster.events, 2)
	assert.Equal(t, publishedEvent{Group: GroupDashboard, Type: "report_update"}, env.broadcaster.events[0])
	assert.Equal(t, publishedEvent{Group: GroupReports, Type: "report_created"}, env.broadcaster.events[1])
}

func TestFanoutAssignment(t *testing.T) {
	env := newTestEnv(t)
	citizen := seedUser(t, env.db, entity.RoleCitizen)
	collector := seedUser(t, env.db, entity.RoleCollector)
	report := seedReport(t, env.db, citizen.ID, entity.StatusAssigned, &collector.ID)

	prior := Snapshot{Status: entity.StatusPending, AssignedToID: nil}
	env.fanout.ReportUpdated(report, prior)

	want := []publishedEvent{
		{Group: GroupDashboard, Type: "report_update"},
		{Group: UserGroup(citizen.ID), Type: "report_updated"},
		{Group: UserGroup(collector.ID), Type: "task_update"},
		{Group: GroupCollectors, Type: "report_assigned"},
		{Group: UserGroup(collector.ID), Type: "notification"},
		{Group: ReportGroup(report.ID), Type: "report_updated"},
	}
	assert.Equal(t, want, env.broadcaster.events)
}

func TestFanoutStatusChange(t *testing.T) {
	env := newTestEnv(t)
	citizen := seedUser(t, env.db, entity.RoleCitizen)
	collector := seedUser(t, env.db, entity.RoleCollector)
	report := seedReport(t, env.db, citizen.ID, entity.StatusInProgress, &collector.ID)

	// assignee unchanged, only the status moved
	prior := Snapshot{Status: entity.StatusAssigned, AssignedToID: &collector.ID}
	env.fanout.ReportUpdated(report, prior)

	want := []publishedEvent{
		{Group: GroupDashboard, Type: "report_update"},
		{Group: UserGroup(citizen.ID), Type: "report_updated"},
		{Group: UserGroup(citizen.ID), Type: "notification"},
		{Group: ReportGroup(report.ID), Type: "report_updated"},
	}
	assert.Equal(t, want, env.broadcaster.events)
}

func TestFanoutNoStatusChange(t *testing.T) {
	env := newTestEnv(t)
	citizen := seedUser(t, env.db, entity.RoleCitizen)
	collector := seedUser(t, env.db, entity.RoleCollector)
	report := seedReport(t, env.db, citizen.ID, entity.StatusCompleted, &collector.ID)

	prior := Snapshot{Status: entity.StatusCompleted, AssignedToID: &collector.ID}
	env.fanout.ReportUpdated(report, prior)

	// no notification event when nothing visible changed
	for _, e := range env.broadcaster.events {
		assert.NotEqual(t, "notification", e.Type)
	}
	assert.Len(t, env.broadcaster.events, 3)
}

func TestAssignmentPipelineEventCount(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env.db, entity.RoleAdmin)
	citizen := seedUser(t, env.db, entity.RoleCitizen)
	collector := seedUser(t, env.db, entity.RoleCollector)
	report := seedReport(t, env.db, citizen.ID, entity.StatusPending, nil)

	_, err := env.transition.AssignCollector(report.ID, collector.ID, admin, "", "")
	require.NoError(t, err)

	require.Len(t, env.broadcaster.events, 6)

	byGroup := map[string]int{}
	for _, e := range env.broadcaster.events {
		byGroup[e.Group]++
	}
	assert.Equal(t, 1, byGroup[GroupDashboard])
	assert.Equal(t, 1, byGroup[GroupCollectors])
	assert.Equal(t, 1, byGroup[UserGroup(citizen.ID)])
	assert.Equal(t, 2, byGroup[UserGroup(collector.ID)])
	assert.Equal(t, 1, byGroup[fmt.Sprintf("report_%d", report.ID)])
}

func TestGroupNames(t *testing.T) {
	assert.Equal(t, "user_7", UserGroup(7))
	assert.Equal(t, "report_42", ReportGroup(42))
}
