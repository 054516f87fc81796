package entity

import (
	"gorm.io/gorm"
)

type ReportComment struct {
	gorm.Model
	ReportID uint   `gorm:"not null;index" json:"reportId"`
	Report   Report `json:"-"`

	UserID uint `gorm:"not null" json:"userId"`
	User   User `json:"-"`

	Comment string `gorm:"not null" json:"comment"`
}
