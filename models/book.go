package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string          `gorm:"size:200;not null" json:"title"`
	Author        string          `gorm:"size:200;not null" json:"author"`
	Category      string          `gorm:"size:100" json:"category"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	Description   string          `json:"description"`
	CoverFilename string          `gorm:"size:300" json:"cover_filename"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
