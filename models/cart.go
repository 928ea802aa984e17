package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    uint       `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CartID   uint      `gorm:"index;uniqueIndex:idx_cart_book" json:"cart_id"`
	BookID   uint      `gorm:"uniqueIndex:idx_cart_book" json:"book_id"` // One line per book per cart
	Quantity int       `gorm:"not null" json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}
