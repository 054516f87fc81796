package services

import (
	"strings"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
	"github.com/igRoy3/SmartWasteManagement/repository"
)

type ReportService struct {
	repo   *repository.ReportRepository
	fanout *FanoutService
}

func NewReportService(repo *repository.ReportRepository, fanout *FanoutService) *ReportService {
	return &ReportService{repo: repo, fanout: fanout}
}

type CreateReportInput struct {
	Title       string
	Description string
	WasteType   string
	Latitude    float64
	Longitude   float64
	Address     string
	Image       string
}

func (s *ReportService) CreateReport(userID uint, in CreateReportInput) (*entity.Report, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("title", "title is required")
	}
	wasteType := in.WasteType
	if wasteType == "" {
		wasteType = entity.WasteMixed
	}
	if !entity.ValidWasteType(wasteType) {
		return nil, apperr.Validation("wasteType", "unknown waste type "+wasteType)
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, apperr.Validation("latitude", "latitude out of range")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, apperr.Validation("longitude", "longitude out of range")
	}

	report := &entity.Report{
		Title:        title,
		Description:  in.Description,
		WasteType:    wasteType,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Address:      in.Address,
		Image:        in.Image,
		Status:       entity.StatusPending,
		ReportedByID: userID,
	}
	if err := s.repo.Create(report); err != nil {
		return nil, err
	}

	s.fanout.ReportCreated(report)
	return report, nil
}

func (s *ReportService) FindAllByReporter(userID uint, out *[]entity.Report) error {
	return s.repo.FindAllByReporter(userID, out)
}

func (s *ReportService) FindAllByAssignee(userID uint, status string, out *[]entity.Report) error {
	return s.repo.FindAllByAssignee(userID, status, out)
}

// DetailFor returns a report with its history and comments, enforcing
// visibility: citizens see their own reports, collectors their assigned
// ones, admins everything.
func (s *ReportService) DetailFor(actor *entity.User, reportID uint) (*entity.Report, error) {
	report, err := s.repo.FindDetail(reportID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case entity.RoleAdmin:
		return report, nil
	case entity.RoleCollector:
		if report.AssignedToID != nil && *report.AssignedToID == actor.ID {
			return report, nil
		}
	case entity.RoleCitizen:
		if report.ReportedByID == actor.ID {
			return report, nil
		}
	}
	// hide existence from outsiders
	return nil, apperr.NotFoundf("report %d", reportID)
}

func (s *ReportService) FindFiltered(f repository.AdminFilter, out *[]entity.Report) (int64, error) {
	return s.repo.FindFiltered(f, out)
}

func (s *ReportService) AddComment(actor *entity.User, reportID uint, text string) (*entity.ReportComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("comment", "comment is required")
	}
	if _, err := s.DetailFor(actor, reportID); err != nil {
		return nil, err
	}

	comment := &entity.ReportComment{
		ReportID: reportID,
		UserID:   actor.ID,
		Comment:  text,
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ReportService) ListComments(actor *entity.User, reportID uint) ([]entity.ReportComment, error) {
	if _, err := s.DetailFor(actor, reportID); err != nil {
		return nil, err
	}
	var comments []entity.ReportComment
	if err := s.repo.FindComments(reportID, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
