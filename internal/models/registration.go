package models

import (
	"github.com/spellbe/portal-api/internal/registration"
	"gorm.io/gorm"
)

type StudentRegistration struct {
	gorm.Model
	PublicID             string `json:"id" gorm:"uniqueIndex"`
	registration.Student `gorm:"embedded"`
}

type VolunteerRegistration struct {
	gorm.Model
	PublicID               string `json:"id" gorm:"uniqueIndex"`
	registration.Volunteer `gorm:"embedded"`
}

type ContactMessage struct {
	gorm.Model
	PublicID             string `json:"id" gorm:"uniqueIndex"`
	registration.Contact `gorm:"embedded"`
}
