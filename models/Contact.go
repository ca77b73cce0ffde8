package models

import "gorm.io/gorm"

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusResolved = "resolved"
)

type Contact struct {
	gorm.Model

	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `gorm:"type:text" json:"message"`

	Status string `gorm:"default:'new'" json:"status"`
}
