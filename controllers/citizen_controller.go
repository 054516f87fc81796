package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/resp"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/storage"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

type CitizenController struct {
	reports *services.ReportService
	auth    *services.AuthService
	store   storage.Store
}

func NewCitizenController(reports *services.ReportService, auth *services.AuthService, store storage.Store) *CitizenController {
	return &CitizenController{reports: reports, auth: auth, store: store}
}

const maxImageSize = 10 << 20 // 10 MiB

// CreateReport accepts multipart form data so the mobile client can attach
// the photo in the same request.
func (ctl *CitizenController) CreateReport(c *gin.Context) {
	userID := utils.CurrentUserID(c)

	lat, _ := strconv.ParseFloat(c.PostForm("latitude"), 64)
	lng, _ := strconv.ParseFloat(c.PostForm("longitude"), 64)

	in := services.CreateReportInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		WasteType:   c.PostForm("wasteType"),
		Latitude:    lat,
		Longitude:   lng,
		Address:     c.PostForm("address"),
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			resp.BadRequest(c, "image larger than 10MB")
			return
		}
		src, err := file.Open()
		if err != nil {
			resp.ServerError(c, err)
			return
		}
		defer src.Close()

		name := fmt.Sprintf("%d_%d%s", userID, time.Now().UnixNano(), filepath.Ext(file.Filename))
		ref, err := ctl.store.Save(c.Request.Context(), name, src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			resp.ServerError(c, err)
			return
		}
		in.Image = ref
	}

	report, err := ctl.reports.CreateReport(userID, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, report)
}

func (ctl *CitizenController) MyReports(c *gin.Context) {
	var reports []entity.Report
	if err := ctl.reports.FindAllByReporter(utils.CurrentUserID(c), &reports); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, reports)
}

func (ctl *CitizenController) ReportDetail(c *gin.Context) {
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

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (ctl *CitizenController) AddComment(c *gin.Context) {
	actor, reportID, ok := ctl.actorAndID(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}
	comment, err := ctl.reports.AddComment(actor, reportID, req.Comment)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, comment)
}

func (ctl *CitizenController) ListComments(c *gin.Context) {
	actor, reportID, ok := ctl.actorAndID(c)
	if !ok {
		return
	}
	comments, err := ctl.reports.ListComments(actor, reportID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, comments)
}

func (ctl *CitizenController) actorAndID(c *gin.Context) (*entity.User, uint, bool) {
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
