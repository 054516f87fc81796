package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(report *entity.Report) error {
	return r.db.Create(report).Error
}

func (r *ReportRepository) FindByID(id uint) (*entity.Report, error) {
	return r.findByID(r.db, id)
}

// FindByIDTx reads a report inside the caller's transaction so the prior
// snapshot and the mutation see the same row version.
func (r *ReportRepository) FindByIDTx(tx *gorm.DB, id uint) (*entity.Report, error) {
	return r.findByID(tx, id)
}

func (r *ReportRepository) findByID(db *gorm.DB, id uint) (*entity.Report, error) {
	var report entity.Report
	if err := db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("report %d", id)
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) FindDetail(id uint) (*entity.Report, error) {
	var report entity.Report
	err := r.db.
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id DESC") }).
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("report %d", id)
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) FindAllByReporter(userID uint, out *[]entity.Report) error {
	return r.db.Where("reported_by_id = ?", userID).Order("created_at DESC").Find(out).Error
}

func (r *ReportRepository) FindAllByAssignee(userID uint, status string, out *[]entity.Report) error {
	q := r.db.Where("assigned_to_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Order("created_at DESC").Find(out).Error
}

// AdminFilter mirrors the admin list query parameters.
type AdminFilter struct {
	Status      string
	WasteType   string
	CollectorID uint
	DateFrom    *time.Time
	DateTo      *time.Time
	Search      string
	Limit       int
	Offset      int
}

func (r *ReportRepository) FindFiltered(f AdminFilter, out *[]entity.Report) (int64, error) {
	q := r.db.Model(&entity.Report{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.WasteType != "" {
		q = q.Where("waste_type = ?", f.WasteType)
	}
	if f.CollectorID != 0 {
		q = q.Where("assigned_to_id = ?", f.CollectorID)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at < ?", f.DateTo.AddDate(0, 0, 1))
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR address LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	return total, q.Order("created_at DESC").Find(out).Error
}

// UpdateGuarded applies updates only if the report is still in fromStatus,
// the optimistic check that serializes concurrent transitions on one row.
// Returns the number of rows changed.
func (r *ReportRepository) UpdateGuarded(tx *gorm.DB, id uint, fromStatus string, updates map[string]any) (int64, error) {
	res := tx.Model(&entity.Report{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// AppendUpdate writes a history row; must run in the same transaction as
// the report mutation.
func (r *ReportRepository) AppendUpdate(tx *gorm.DB, update *entity.StatusUpdate) error {
	return tx.Create(update).Error
}

func (r *ReportRepository) LatestUpdate(reportID uint) (*entity.StatusUpdate, error) {
	var update entity.StatusUpdate
	err := r.db.Where("report_id = ?", reportID).Order("id DESC").First(&update).Error
	if err != nil {
		return nil, err
	}
	return &update, nil
}

func (r *ReportRepository) CreateComment(comment *entity.ReportComment) error {
	return r.db.Create(comment).Error
}

func (r *ReportRepository) FindComments(reportID uint, out *[]entity.ReportComment) error {
	return r.db.Where("report_id = ?", reportID).Order("created_at DESC").Find(out).Error
}
