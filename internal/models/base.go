package models

// Base is a physical installation holding equipment stock.
type Base struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
}
