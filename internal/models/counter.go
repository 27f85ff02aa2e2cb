package models

import "time"

// Counter holds the number of accepted registrations for one category.
type Counter struct {
	Category  string `gorm:"primaryKey"`
	Total     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
