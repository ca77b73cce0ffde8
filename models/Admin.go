package models

import "gorm.io/gorm"

// Admin is the persisted admin credential. At most one row exists per
// email; the row is created lazily on the first successful login against
// the configured fallback identity.
type Admin struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;size:191"`
	PasswordHash string `json:"-"`
}
