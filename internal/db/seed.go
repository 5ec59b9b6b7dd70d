package db

import (
	"log"

	"github.com/BruksfildServices01/walkin-queue/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureOwner creates the shop owner account from config on first boot.
// Role changes for other accounts happen through the owner, not here.
func EnsureOwner(db *gorm.DB, email, password string) {
	if email == "" || password == "" {
		return
	}

	var count int64
	db.Model(&models.Account{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("owner seed: failed to hash password: %v", err)
		return
	}

	owner := models.Account{
		Name:         "Owner",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         "owner",
	}

	if err := db.Create(&owner).Error; err != nil {
		log.Printf("owner seed: %v", err)
		return
	}

	log.Printf("owner account seeded for %s", email)
}
