package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/resp"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

type CollectorController struct {
	reports    *services.ReportService
	tasks      *services.TaskService
	transition *services.TransitionService
	auth       *services.AuthService
}

func NewCollectorController(
	reports *services.ReportService,
	tasks *services.TaskService,
	transition *services.TransitionService,
	auth *services.AuthService,
) *CollectorController {
	return &CollectorController{reports: reports, tasks: tasks, transition: transition, auth: auth}
}

// MyTasks lists the reports assigned to the calling collector, optionally
// filtered by status.
func (ctl *CollectorController) MyTasks(c *gin.Context) {
	var reports []entity.Report
	err := ctl.reports.FindAllByAssignee(utils.CurrentUserID(c), c.Query("status"), &reports)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, reports)
}

func (ctl *CollectorController) TaskDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid report id")
		return
	}
	actor, err := ctl.auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	report, err := ctl.reports.DetailFor(actor, uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, report)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateStatus moves an assigned report forward (assigned to in_progress,
// in_progress to completed).
func (ctl *CollectorController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid report id")
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}
	actor, err := ctl.auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}

	report, err := ctl.transition.Apply(uint(id), req.Status, actor, req.Note)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, report)
}

// Assignments lists the collection task rows themselves, with priority and
// timing fields the report list does not carry.
func (ctl *CollectorController) Assignments(c *gin.Context) {
	tasks, err := ctl.tasks.ListForCollector(utils.CurrentUserID(c), c.Query("status"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, tasks)
}
