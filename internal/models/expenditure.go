package models

import "time"

// Expenditure permanently removes stock from a base.
type Expenditure struct {
	ID              int       `json:"id"`
	BaseID          int       `json:"base_id"`
	EquipmentTypeID int       `json:"equipment_type_id"`
	ExpendedBy      string    `json:"expended_by"`
	Quantity        int       `json:"quantity"`
	ExpendedAt      time.Time `json:"expended_at"`
	CreatedBy       *int      `json:"created_by"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}
