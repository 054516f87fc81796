package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCitizen   = "citizen"
	RoleCollector = "collector"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Role        string `gorm:"not null;default:citizen" json:"role"`

	// device token for push notifications; empty = no device registered
	FCMToken string `json:"-" gorm:"column:fcm_token"`

	// Relations — preload only when needed
	Reports       []Report         `gorm:"foreignKey:ReportedByID" json:"-"`
	AssignedTasks []Report         `gorm:"foreignKey:AssignedToID" json:"-"`
	StatusUpdates []StatusUpdate   `gorm:"foreignKey:UpdatedByID" json:"-"`
	Comments      []ReportComment  `gorm:"foreignKey:UserID" json:"-"`
	Collections   []CollectionTask `gorm:"foreignKey:CollectorID" json:"-"`
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
