package services

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

// AnalyticsService is read-only rollups over the report store. No method
// here mutates anything; every result is a pure function of one query
// snapshot.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type WasteTypeCount struct {
	WasteType string `json:"waste_type"`
	Count     int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

type WeekdayCount struct {
	Weekday int   `json:"weekday"`
	Count   int64 `json:"count"`
}

type TrendPoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type CollectorStanding struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Completed int64  `json:"completed"`
}

type CollectorPerformance struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	TotalTasks     int64  `json:"totalTasks"`
	CompletedTasks int64  `json:"completedTasks"`
	PendingTasks   int64  `json:"pendingTasks"`
}

type PeriodTrend struct {
	Current       int64   `json:"current"`
	Previous      int64   `json:"previous"`
	PercentChange float64 `json:"percentChange"`
}

func (s *AnalyticsService) ByStatus() ([]StatusCount, error) {
	var out []StatusCount
	err := s.db.Model(&entity.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Order("count DESC").
		Scan(&out).Error
	return out, err
}

func (s *AnalyticsService) ByWasteType() ([]WasteTypeCount, error) {
	var out []WasteTypeCount
	err := s.db.Model(&entity.Report{}).
		Select("waste_type, count(*) as count").
		Group("waste_type").
		Order("count DESC").
		Scan(&out).Error
	return out, err
}

// DailyReports counts new reports per day over a trailing window.
func (s *AnalyticsService) DailyReports(days int) ([]DailyCount, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var out []DailyCount
	err := s.db.Model(&entity.Report{}).
		Select("date(created_at) as date, count(*) as count").
		Where("created_at >= ?", cutoff).
		Group("date(created_at)").
		Order("date").
		Scan(&out).Error
	return out, err
}

// AvgResolutionHours averages completed_at - created_at over completed
// reports, rounded to one decimal. Nil when nothing has completed yet.
func (s *AnalyticsService) AvgResolutionHours() (*float64, error) {
	var rows []struct {
		CreatedAt   time.Time
		CompletedAt time.Time
	}
	err := s.db.Model(&entity.Report{}).
		Select("created_at, completed_at").
		Where("status = ? AND completed_at IS NOT NULL", entity.StatusCompleted).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var total float64
	for _, r := range rows {
		total += r.CompletedAt.Sub(r.CreatedAt).Hours()
	}
	avg := math.Round(total/float64(len(rows))*10) / 10
	return &avg, nil
}

func (s *AnalyticsService) HourlyDistribution() ([]HourCount, error) {
	var out []HourCount
	err := s.db.Model(&entity.Report{}).
		Select("cast(strftime('%H', created_at) as integer) as hour, count(*) as count").
		Group("hour").
		Order("hour").
		Scan(&out).Error
	return out, err
}

// WeekdayDistribution buckets by day of week, 1=Sunday through 7=Saturday.
func (s *AnalyticsService) WeekdayDistribution() ([]WeekdayCount, error) {
	var out []WeekdayCount
	err := s.db.Model(&entity.Report{}).
		Select("cast(strftime('%w', created_at) as integer) + 1 as weekday, count(*) as count").
		Group("weekday").
		Order("weekday").
		Scan(&out).Error
	return out, err
}

// CompletionTrend returns one cumulative completion-rate point per day for
// the trailing window. Two grouped queries plus a running sum; never one
// query per day.
func (s *AnalyticsService) CompletionTrend(days int) ([]TrendPoint, error) {
	today := time.Now()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()).
		AddDate(0, 0, -(days - 1))
	startStr := start.Format("2006-01-02")

	var totalBefore, completedBefore int64
	if err := s.db.Model(&entity.Report{}).
		Where("date(created_at) < ?", startStr).
		Count(&totalBefore).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&entity.Report{}).
		Where("status = ? AND completed_at IS NOT NULL AND date(completed_at) < ?", entity.StatusCompleted, startStr).
		Count(&completedBefore).Error; err != nil {
		return nil, err
	}

	var createdPerDay []DailyCount
	if err := s.db.Model(&entity.Report{}).
		Select("date(created_at) as date, count(*) as count").
		Where("date(created_at) >= ?", startStr).
		Group("date(created_at)").
		Scan(&createdPerDay).Error; err != nil {
		return nil, err
	}
	var completedPerDay []DailyCount
	if err := s.db.Model(&entity.Report{}).
		Select("date(completed_at) as date, count(*) as count").
		Where("status = ? AND completed_at IS NOT NULL AND date(completed_at) >= ?", entity.StatusCompleted, startStr).
		Group("date(completed_at)").
		Scan(&completedPerDay).Error; err != nil {
		return nil, err
	}

	created := make(map[string]int64, len(createdPerDay))
	for _, d := range createdPerDay {
		created[d.Date] = d.Count
	}
	completed := make(map[string]int64, len(completedPerDay))
	for _, d := range completedPerDay {
		completed[d.Date] = d.Count
	}

	points := make([]TrendPoint, 0, days)
	runningTotal := totalBefore
	runningCompleted := completedBefore
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		runningTotal += created[date]
		runningCompleted += completed[date]

		rate := 0.0
		if runningTotal > 0 {
			rate = math.Round(float64(runningCompleted)/float64(runningTotal)*1000) / 10
		}
		points = append(points, TrendPoint{Date: date, Rate: rate})
	}
	return points, nil
}

// TopCollectors is the leaderboard by completed report count.
func (s *AnalyticsService) TopCollectors(n int) ([]CollectorStanding, error) {
	var rows []struct {
		AssignedToID uint
		Completed    int64
	}
	err := s.db.Model(&entity.Report{}).
		Select("assigned_to_id, count(*) as completed").
		Where("status = ? AND assigned_to_id IS NOT NULL", entity.StatusCompleted).
		Group("assigned_to_id").
		Order("completed DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return s.withCollectorNames(rows)
}

func (s *AnalyticsService) withCollectorNames(rows []struct {
	AssignedToID uint
	Completed    int64
}) ([]CollectorStanding, error) {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignedToID)
	}
	var users []entity.User
	if len(ids) > 0 {
		if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]CollectorStanding, 0, len(rows))
	for _, r := range rows {
		u := byID[r.AssignedToID]
		out = append(out, CollectorStanding{
			ID:        r.AssignedToID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Completed: r.Completed,
		})
	}
	return out, nil
}

// CollectorPerformanceRows breaks each collector's workload down by state.
func (s *AnalyticsService) CollectorPerformanceRows(n int) ([]CollectorPerformance, error) {
	var rows []struct {
		AssignedToID uint
		Total        int64
		Completed    int64
		Pending      int64
	}
	err := s.db.Model(&entity.Report{}).
		Select(`assigned_to_id,
			count(*) as total,
			sum(case when status = ? then 1 else 0 end) as completed,
			sum(case when status in (?, ?) then 1 else 0 end) as pending`,
			entity.StatusCompleted, entity.StatusAssigned, entity.StatusInProgress).
		Where("assigned_to_id IS NOT NULL").
		Group("assigned_to_id").
		Order("completed DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignedToID)
	}
	var users []entity.User
	if len(ids) > 0 {
		if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	byID := make(map[uint]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]CollectorPerformance, 0, len(rows))
	for _, r := range rows {
		u := byID[r.AssignedToID]
		out = append(out, CollectorPerformance{
			ID:             r.AssignedToID,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			TotalTasks:     r.Total,
			CompletedTasks: r.Completed,
			PendingTasks:   r.Pending,
		})
	}
	return out, nil
}

// WeeklyTrends compares the trailing 7 days against the 7 before them.
func (s *AnalyticsService) WeeklyTrends() (reports, completions PeriodTrend, err error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	count := func(q *gorm.DB) (int64, error) {
		var c int64
		err := q.Count(&c).Error
		return c, err
	}

	if reports.Current, err = count(s.db.Model(&entity.Report{}).
		Where("created_at >= ?", weekAgo)); err != nil {
		return
	}
	if reports.Previous, err = count(s.db.Model(&entity.Report{}).
		Where("created_at >= ? AND created_at < ?", twoWeeksAgo, weekAgo)); err != nil {
		return
	}
	if completions.Current, err = count(s.db.Model(&entity.Report{}).
		Where("status = ? AND completed_at >= ?", entity.StatusCompleted, weekAgo)); err != nil {
		return
	}
	if completions.Previous, err = count(s.db.Model(&entity.Report{}).
		Where("status = ? AND completed_at >= ? AND completed_at < ?", entity.StatusCompleted, twoWeeksAgo, weekAgo)); err != nil {
		return
	}

	reports.PercentChange = percentChange(reports.Current, reports.Previous)
	completions.PercentChange = percentChange(completions.Current, completions.Previous)
	return
}

func percentChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round(float64(current-previous)/float64(previous)*1000) / 10
}

type DashboardStats struct {
	Reports map[string]int64 `json:"reports"`
	Users   map[string]int64 `json:"users"`
}

func (s *AnalyticsService) Dashboard() (*DashboardStats, error) {
	byStatus, err := s.ByStatus()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Reports: map[string]int64{
			"total":                  0,
			entity.StatusPending:    0,
			entity.StatusAssigned:   0,
			entity.StatusInProgress: 0,
			entity.StatusCompleted:  0,
			entity.StatusRejected:   0,
		},
		Users: map[string]int64{},
	}
	for _, sc := range byStatus {
		stats.Reports[sc.Status] = sc.Count
		stats.Reports["total"] += sc.Count
	}

	var roleCounts []struct {
		Role  string
		Count int64
	}
	if err := s.db.Model(&entity.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&roleCounts).Error; err != nil {
		return nil, err
	}
	for _, rc := range roleCounts {
		switch rc.Role {
		case entity.RoleCollector:
			stats.Users["collectors"] = rc.Count
		case entity.RoleCitizen:
			stats.Users["citizens"] = rc.Count
		}
	}
	return stats, nil
}

type MapMarker struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	WasteType      string  `json:"wasteType"`
	Status         string  `json:"status"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Address        string  `json:"address"`
	ReportedByName string  `json:"reportedByName"`
	AssignedToName string  `json:"assignedToName,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// MapData returns every non-rejected report as a map marker.
func (s *AnalyticsService) MapData() ([]MapMarker, error) {
	var reports []entity.Report
	err := s.db.
		Preload("ReportedBy").
		Preload("AssignedTo").
		Where("status <> ?", entity.StatusRejected).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	out := make([]MapMarker, 0, len(reports))
	for i := range reports {
		r := &reports[i]
		m := MapMarker{
			ID:             r.ID,
			Title:          r.Title,
			WasteType:      r.WasteType,
			Status:         r.Status,
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			Address:        r.Address,
			ReportedByName: r.ReportedBy.FullName(),
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		}
		if r.AssignedTo != nil {
			m.AssignedToName = r.AssignedTo.FullName()
		}
		out = append(out, m)
	}
	return out, nil
}
