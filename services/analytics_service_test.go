package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

func seedCompletedReport(t *testing.T, db *gorm.DB, reporterID, collectorID uint, created time.Time, resolution time.Duration) *entity.Report {
	t.Helper()
	completed := created.Add(resolution)
	r := &entity.Report{
		Model:        gorm.Model{CreatedAt: created},
		Title:        "cleared pile",
		WasteType:    entity.WasteOrganic,
		Status:       entity.StatusCompleted,
		ReportedByID: reporterID,
		AssignedToID: &collectorID,
		CompletedAt:  &completed,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestAvgResolutionHours(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	collector := seedUser(t, db, entity.RoleCollector)

	t.Run("nil without completions", func(t *testing.T) {
		avg, err := svc.AvgResolutionHours()
		require.NoError(t, err)
		assert.Nil(t, avg)
	})

	t.Run("mean of two resolutions", func(t *testing.T) {
		base := time.Now().Add(-48 * time.Hour)
		seedCompletedReport(t, db, citizen.ID, collector.ID, base, 2*time.Hour)
		seedCompletedReport(t, db, citizen.ID, collector.ID, base, 4*time.Hour)

		avg, err := svc.AvgResolutionHours()
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.Equal(t, 3.0, *avg)
	})

	t.Run("open reports are excluded", func(t *testing.T) {
		seedReport(t, db, citizen.ID, entity.StatusPending, nil)

		avg, err := svc.AvgResolutionHours()
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.Equal(t, 3.0, *avg)
	})
}

func TestGroupedCountsSumToTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	collector := seedUser(t, db, entity.RoleCollector)

	seedReport(t, db, citizen.ID, entity.StatusPending, nil)
	seedReport(t, db, citizen.ID, entity.StatusPending, nil)
	seedReport(t, db, citizen.ID, entity.StatusAssigned, &collector.ID)
	seedCompletedReport(t, db, citizen.ID, collector.ID, time.Now().Add(-24*time.Hour), time.Hour)

	var total int64
	require.NoError(t, db.Model(&entity.Report{}).Count(&total).Error)

	byStatus, err := svc.ByStatus()
	require.NoError(t, err)
	var statusSum int64
	for _, sc := range byStatus {
		statusSum += sc.Count
	}
	assert.Equal(t, total, statusSum)

	byWaste, err := svc.ByWasteType()
	require.NoError(t, err)
	var wasteSum int64
	for _, wc := range byWaste {
		wasteSum += wc.Count
	}
	assert.Equal(t, total, wasteSum)
}

func TestCompletionTrend(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	collector := seedUser(t, db, entity.RoleCollector)

	now := time.Now()
	seedCompletedReport(t, db, citizen.ID, collector.ID, now, 0)
	seedReport(t, db, citizen.ID, entity.StatusPending, nil)

	points, err := svc.CompletionTrend(7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	// one of two reports completed as of today
	last := points[len(points)-1]
	assert.Equal(t, now.Format("2006-01-02"), last.Date)
	assert.Equal(t, 50.0, last.Rate)

	// the day before the window has no reports at all
	assert.Equal(t, 0.0, points[0].Rate)
}

func TestTopCollectors(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	busy := seedUser(t, db, entity.RoleCollector)
	idle := seedUser(t, db, entity.RoleCollector)

	base := time.Now().Add(-72 * time.Hour)
	seedCompletedReport(t, db, citizen.ID, busy.ID, base, time.Hour)
	seedCompletedReport(t, db, citizen.ID, busy.ID, base, 2*time.Hour)
	seedCompletedReport(t, db, citizen.ID, idle.ID, base, time.Hour)

	standings, err := svc.TopCollectors(10)
	require.NoError(t, err)
	require.Len(t, standings, 2)

	assert.Equal(t, busy.ID, standings[0].ID)
	assert.EqualValues(t, 2, standings[0].Completed)
	assert.Equal(t, busy.FirstName, standings[0].FirstName)
	assert.Equal(t, idle.ID, standings[1].ID)
	assert.EqualValues(t, 1, standings[1].Completed)
}

func TestCollectorPerformanceRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	collector := seedUser(t, db, entity.RoleCollector)

	seedCompletedReport(t, db, citizen.ID, collector.ID, time.Now().Add(-24*time.Hour), time.Hour)
	seedReport(t, db, citizen.ID, entity.StatusAssigned, &collector.ID)
	seedReport(t, db, citizen.ID, entity.StatusInProgress, &collector.ID)

	rows, err := svc.CollectorPerformanceRows(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.EqualValues(t, 3, rows[0].TotalTasks)
	assert.EqualValues(t, 1, rows[0].CompletedTasks)
	assert.EqualValues(t, 2, rows[0].PendingTasks)
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)
	collector := seedUser(t, db, entity.RoleCollector)
	seedUser(t, db, entity.RoleAdmin)

	seedReport(t, db, citizen.ID, entity.StatusPending, nil)
	seedReport(t, db, citizen.ID, entity.StatusAssigned, &collector.ID)

	stats, err := svc.Dashboard()
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Reports["total"])
	assert.EqualValues(t, 1, stats.Reports[entity.StatusPending])
	assert.EqualValues(t, 1, stats.Reports[entity.StatusAssigned])
	assert.EqualValues(t, 0, stats.Reports[entity.StatusCompleted])
	assert.EqualValues(t, 1, stats.Users["citizens"])
	assert.EqualValues(t, 1, stats.Users["collectors"])
}

func TestMapDataExcludesRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)

	seedReport(t, db, citizen.ID, entity.StatusPending, nil)
	seedReport(t, db, citizen.ID, entity.StatusRejected, nil)

	markers, err := svc.MapData()
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, entity.StatusPending, markers[0].Status)
	assert.Equal(t, citizen.FullName(), markers[0].ReportedByName)
}

func TestWeeklyTrends(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	citizen := seedUser(t, db, entity.RoleCitizen)

	thisWeek := time.Now().Add(-24 * time.Hour)
	lastWeek := time.Now().AddDate(0, 0, -10)
	for _, created := range []time.Time{thisWeek, thisWeek, lastWeek} {
		r := &entity.Report{
			Model:        gorm.Model{CreatedAt: created},
			Title:        "bin",
			WasteType:    entity.WasteMixed,
			Status:       entity.StatusPending,
			ReportedByID: citizen.ID,
		}
		require.NoError(t, db.Create(r).Error)
	}

	reports, _, err := svc.WeeklyTrends()
	require.NoError(t, err)
	assert.EqualValues(t, 2, reports.Current)
	assert.EqualValues(t, 1, reports.Previous)
	assert.Equal(t, 100.0, reports.PercentChange)
}
