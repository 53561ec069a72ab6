package models

// EquipmentType is a trackable category of items, e.g. rifles or vehicles.
// (name, category) is unique.
type EquipmentType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}
