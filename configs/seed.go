package configs

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

// SeedAdmin creates the first admin account from env credentials.
func SeedAdmin(cfg *Config) error {
	db := DB()
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", cfg.AdminEmail).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", cfg.AdminEmail)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	admin := entity.User{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}
