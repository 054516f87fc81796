package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
)

func newReportService(env *testEnv) *ReportService {
	return NewReportService(env.reports, env.fanout)
}

func TestCreateReport(t *testing.T) {
	env := newTestEnv(t)
	svc := newReportService(env)
	citizen := seedUser(t, env.db, entity.RoleCitizen)

	report, err := svc.CreateReport(citizen.ID, CreateReportInput{
		Title:     "tipped dumpster",
		WasteType: entity.WasteHazardous,
		Latitude:  13.7563,
		Longitude: 100.5018,
		Address:   "Rama IV Rd",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, report.Status)
	assert.Equal(t, citizen.ID, report.ReportedByID)
	assert.Nil(t, report.AssignedToID)

	// creation reaches the dashboard and the general feed, nothing else
	require.Len(t, env.broadcaster.events, 2)

	t.Run("defaults to mixed waste", func(t *testing.T) {
		r, err := svc.CreateReport(citizen.ID, CreateReportInput{Title: "bags on sidewalk"})
		require.NoError(t, err)
		assert.Equal(t, entity.WasteMixed, r.WasteType)
	})

	t.Run("title required", func(t *testing.T) {
		_, err := svc.CreateReport(citizen.ID, CreateReportInput{Title: "   "})
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("coordinates validated", func(t *testing.T) {
		_, err := svc.CreateReport(citizen.ID, CreateReportInput{Title: "x", Latitude: 91})
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)

		_, err = svc.CreateReport(citizen.ID, CreateReportInput{Title: "x", Longitude: -181})
		require.ErrorAs(t, err, &ve)
	})

	t.Run("unknown waste type rejected", func(t *testing.T) {
		_, err := svc.CreateReport(citizen.ID, CreateReportInput{Title: "x", WasteType: "plasma"})
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestReportVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := newReportService(env)
	reporter := seedUser(t, env.db, entity.RoleCitizen)
	stranger := seedUser(t, env.db, entity.RoleCitizen)
	assignee := seedUser(t, env.db, entity.RoleCollector)
	otherCollector := seedUser(t, env.db, entity.RoleCollector)
	admin := seedUser(t, env.db, entity.RoleAdmin)

	report := seedReport(t, env.db, reporter.ID, entity.StatusAssigned, &assignee.ID)

	for _, tc := range []struct {
		name    string
		actor   *entity.User
		visible bool
	}{
		{"reporter sees own", reporter, true},
		{"other citizen blocked", stranger, false},
		{"assignee sees task", assignee, true},
		{"other collector blocked", otherCollector, false},
		{"admin sees all", admin, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.DetailFor(tc.actor, report.ID)
			if tc.visible {
				require.NoError(t, err)
				assert.Equal(t, report.ID, got.ID)
			} else {
				require.ErrorIs(t, err, apperr.ErrNotFound)
			}
		})
	}
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	svc := newReportService(env)
	reporter := seedUser(t, env.db, entity.RoleCitizen)
	stranger := seedUser(t, env.db, entity.RoleCitizen)
	report := seedReport(t, env.db, reporter.ID, entity.StatusPending, nil)

	comment, err := svc.AddComment(reporter, report.ID, "still not picked up")
	require.NoError(t, err)
	assert.Equal(t, reporter.ID, comment.UserID)

	comments, err := svc.ListComments(reporter, report.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "still not picked up", comments[0].Comment)

	t.Run("empty comment rejected", func(t *testing.T) {
		_, err := svc.AddComment(reporter, report.ID, "  ")
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("outsider cannot comment", func(t *testing.T) {
		_, err := svc.AddComment(stranger, report.ID, "me too")
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestReportDetailIncludesHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := newReportService(env)
	admin := seedUser(t, env.db, entity.RoleAdmin)
	reporter := seedUser(t, env.db, entity.RoleCitizen)
	collector := seedUser(t, env.db, entity.RoleCollector)
	report := seedReport(t, env.db, reporter.ID, entity.StatusPending, nil)

	_, err := env.transition.AssignCollector(report.ID, collector.ID, admin, "", "")
	require.NoError(t, err)
	_, err = env.transition.Apply(report.ID, entity.StatusInProgress, collector, "rolling")
	require.NoError(t, err)

	detail, err := svc.DetailFor(admin, report.ID)
	require.NoError(t, err)
	require.Len(t, detail.Updates, 2)
	// newest first
	assert.Equal(t, entity.StatusInProgress, detail.Updates[0].Status)
	assert.Equal(t, entity.StatusAssigned, detail.Updates[1].Status)
}
