package models

import "gorm.io/gorm"

// CartItem is one line of a user's cart, keyed by user, item and size.
type CartItem struct {
	gorm.Model

	UserID uint   `gorm:"index:idx_cart_line,unique" json:"userId"`
	ItemID string `gorm:"index:idx_cart_line,unique;size:64" json:"itemId"`
	Size   string `gorm:"index:idx_cart_line,unique;size:16" json:"size"`

	Quantity uint `json:"quantity"`
}
