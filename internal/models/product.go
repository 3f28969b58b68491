package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SKU         string    `gorm:"size:50;not null;unique" json:"sku"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	SystemStock int       `gorm:"not null;default:0" json:"system_stock"` // expected quantity per the master list
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
