package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records new stock arriving at a base.
type Purchase struct {
	ID              int                 `json:"id"`
	BaseID          int                 `json:"base_id"`
	EquipmentTypeID int                 `json:"equipment_type_id"`
	Quantity        int                 `json:"quantity"`
	UnitCost        decimal.NullDecimal `json:"unit_cost"`
	TotalCost       decimal.NullDecimal `json:"total_cost"`
	PurchasedAt     time.Time           `json:"purchased_at"`
	CreatedBy       *int                `json:"created_by"`
	Notes           string              `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
}

// FillTotalCost sets TotalCost = quantity * unit_cost when a unit cost is recorded.
func (p *Purchase) FillTotalCost() {
	if !p.UnitCost.Valid {
		p.TotalCost = decimal.NullDecimal{}
		return
	}
	p.TotalCost = decimal.NullDecimal{
		Decimal: p.UnitCost.Decimal.Mul(decimal.NewFromInt(int64(p.Quantity))),
		Valid:   true,
	}
}
