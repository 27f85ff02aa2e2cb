package models

import (
	"gorm.io/gorm"
)

// Submission records a payload accepted by one of the submit functions.
// ReceiptID is not unique: it is derived from the wall clock.
type Submission struct {
	gorm.Model
	ReceiptID string `json:"receipt_id" gorm:"index"`
	Kind      string `json:"kind"`
	Email     string `json:"email"`
	Payload   string `json:"payload"`
}
