package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/resp"
	"github.com/igRoy3/SmartWasteManagement/repository"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

type AdminController struct {
	reports    *services.ReportService
	tasks      *services.TaskService
	transition *services.TransitionService
	analytics  *services.AnalyticsService
	auth       *services.AuthService
}

func NewAdminController(
	reports *services.ReportService,
	tasks *services.TaskService,
	transition *services.TransitionService,
	analytics *services.AnalyticsService,
	auth *services.AuthService,
) *AdminController {
	return &AdminController{
		reports:    reports,
		tasks:      tasks,
		transition: transition,
		analytics:  analytics,
		auth:       auth,
	}
}

// ListReports is the admin triage view: every report, filterable by
// status, waste type, collector, date range and free text.
func (ctl *AdminController) ListReports(c *gin.Context) {
	filter := repository.AdminFilter{
		Status:    c.Query("status"),
		WasteType: c.Query("wasteType"),
		Search:    c.Query("search"),
	}
	if v := c.Query("collectorId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			resp.BadRequest(c, "invalid collectorId")
			return
		}
		filter.CollectorID = uint(id)
	}
	if v := c.Query("dateFrom"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			resp.BadRequest(c, "dateFrom must be YYYY-MM-DD")
			return
		}
		filter.DateFrom = &t
	}
	if v := c.Query("dateTo"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			resp.BadRequest(c, "dateTo must be YYYY-MM-DD")
			return
		}
		filter.DateTo = &t
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	var reports []entity.Report
	total, err := ctl.reports.FindFiltered(filter, &reports)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"total": total, "reports": reports})
}

func (ctl *AdminController) ReportDetail(c *gin.Context) {
	actor, reportID, ok := ctl.actorAndID(c)
	if !ok {
		return
	}
	report, err := ctl.reports.DetailFor(actor, reportID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, report)
}

type assignRequest struct {
	CollectorID uint   `json:"collectorId" binding:"required"`
	Note        string `json:"note"`
	Priority    string `json:"priority"`
}

func (ctl *AdminController) AssignCollector(c *gin.Context) {
	actor, reportID, ok := ctl.actorAndID(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	report, err := ctl.transition.AssignCollector(reportID, req.CollectorID, actor, req.Note, req.Priority)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, report)
}

type rejectRequest struct {
	Note string `json:"note"`
}

func (ctl *AdminController) RejectReport(c *gin.Context) {
	actor, reportID, ok := ctl.actorAndID(c)
	if !ok {
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}
	note := req.Note
	if note == "" {
		note = "Report rejected"
	}

	report, err := ctl.transition.Apply(reportID, entity.StatusRejected, actor, note)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, report)
}

func (ctl *AdminController) Dashboard(c *gin.Context) {
	stats, err := ctl.analytics.Dashboard()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, stats)
}

// Analytics returns every rollup in one payload so the dashboard loads
// with a single request.
func (ctl *AdminController) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}

	byStatus, err := ctl.analytics.ByStatus()
	if err != nil {
		resp.Error(c, err)
		return
	}
	byWasteType, err := ctl.analytics.ByWasteType()
	if err != nil {
		resp.Error(c, err)
		return
	}
	daily, err := ctl.analytics.DailyReports(days)
	if err != nil {
		resp.Error(c, err)
		return
	}
	avgResolution, err := ctl.analytics.AvgResolutionHours()
	if err != nil {
		resp.Error(c, err)
		return
	}
	hourly, err := ctl.analytics.HourlyDistribution()
	if err != nil {
		resp.Error(c, err)
		return
	}
	weekday, err := ctl.analytics.WeekdayDistribution()
	if err != nil {
		resp.Error(c, err)
		return
	}
	trend, err := ctl.analytics.CompletionTrend(days)
	if err != nil {
		resp.Error(c, err)
		return
	}
	topCollectors, err := ctl.analytics.TopCollectors(10)
	if err != nil {
		resp.Error(c, err)
		return
	}
	performance, err := ctl.analytics.CollectorPerformanceRows(10)
	if err != nil {
		resp.Error(c, err)
		return
	}
	weeklyReports, weeklyCompletions, err := ctl.analytics.WeeklyTrends()
	if err != nil {
		resp.Error(c, err)
		return
	}

	resp.OK(c, gin.H{
		"byStatus":             byStatus,
		"byWasteType":          byWasteType,
		"dailyReports":         daily,
		"avgResolutionHours":   avgResolution,
		"hourlyDistribution":   hourly,
		"weekdayDistribution":  weekday,
		"completionTrend":      trend,
		"topCollectors":        topCollectors,
		"collectorPerformance": performance,
		"weeklyTrends": gin.H{
			"reports":     weeklyReports,
			"completions": weeklyCompletions,
		},
	})
}

func (ctl *AdminController) MapData(c *gin.Context) {
	markers, err := ctl.analytics.MapData()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, markers)
}

func (ctl *AdminController) ListCollectors(c *gin.Context) {
	collectors, err := ctl.auth.ListCollectors()
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, collectors)
}

func (ctl *AdminController) ListTasks(c *gin.Context) {
	tasks, err := ctl.tasks.ListAll(c.Query("status"), c.Query("priority"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, tasks)
}

func (ctl *AdminController) actorAndID(c *gin.Context) (*entity.User, uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid report id")
		return nil, 0, false
	}
	actor, err := ctl.auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return nil, 0, false
	}
	return actor, uint(id), true
}
