package models

import (
	"time"

	"gorm.io/gorm"
)

type Subscriber struct {
	gorm.Model

	Email    string `gorm:"uniqueIndex;size:191" json:"email"`
	IsActive bool   `json:"isActive"`

	SubscribedAt time.Time `json:"subscribedAt"`
}
