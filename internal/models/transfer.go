package models

import "time"

// Transfer moves stock between two bases. from_base and to_base must differ.
type Transfer struct {
	ID              int       `json:"id"`
	FromBaseID      int       `json:"from_base_id"`
	ToBaseID        int       `json:"to_base_id"`
	EquipmentTypeID int       `json:"equipment_type_id"`
	Quantity        int       `json:"quantity"`
	TransferAt      time.Time `json:"transfer_at"`
	CreatedBy       *int      `json:"created_by"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}
