package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name  string `json:"name"`
	Email string `gorm:"uniqueIndex;size:191" json:"email"`

	PasswordHash string `json:"-"`
}
