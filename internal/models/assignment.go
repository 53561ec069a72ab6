package models

import "time"

// Assignment hands stock to personnel. It reduces available stock at the base
// but the items stay on the base's books.
type Assignment struct {
	ID              int       `json:"id"`
	BaseID          int       `json:"base_id"`
	EquipmentTypeID int       `json:"equipment_type_id"`
	AssignedTo      string    `json:"assigned_to"`
	Quantity        int       `json:"quantity"`
	AssignedAt      time.Time `json:"assigned_at"`
	CreatedBy       *int      `json:"created_by"`
	Purpose         string    `json:"purpose"`
	CreatedAt       time.Time `json:"created_at"`
}
