package models

import "time"

// OpnameEntry: one product's counted quantity inside one session.
// The composite unique index is what makes the submit upsert safe under
// concurrent staff devices: two racing submits for the same pair collapse
// into one row instead of two.
type OpnameEntry struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SessionID uint    `gorm:"not null;uniqueIndex:idx_opname_entries_session_product" json:"session_id"`
	Session   OpnameSession `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_opname_entries_session_product" json:"product_id"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QtyActual int     `gorm:"not null" json:"qty_actual"`
	Notes     string  `gorm:"size:255" json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
}
