// Package report computes the balance reconciliation for one (base,
// equipment type, date range) selection: an opening-balance carry-forward
// plus windowed totals across the five ledger movements.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/crucial707/milstock/internal/models"
)

type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// Request carries the dashboard query parameters. Nil fields are omitted
// filters; EndDate defaults to today (UTC calendar date).
type Request struct {
	BaseID          *int
	EquipmentTypeID *int
	StartDate       *time.Time
	EndDate         *time.Time
}

type BaseRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type EquipmentRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Filters struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type NetMovement struct {
	Total        int `json:"total"`
	Purchases    int `json:"purchases"`
	TransfersIn  int `json:"transfers_in"`
	TransfersOut int `json:"transfers_out"`
}

// Report is the reconciliation result. Quantities are whole units.
type Report struct {
	Base           BaseRef      `json:"base"`
	EquipmentType  EquipmentRef `json:"equipment_type"`
	Filters        Filters      `json:"filters"`
	OpeningBalance int          `json:"opening_balance"`
	ClosingBalance int          `json:"closing_balance"`
	NetMovement    NetMovement  `json:"net_movement"`
	AssignedTotal  int          `json:"assigned_total"`
	ExpendedTotal  int          `json:"expended_total"`
}

// Reconcile resolves the selection, carries the opening balance forward, and
// totals the window. Logistics actors get assigned/expended redacted to zero
// before the closing balance is computed; they may move stock but must not see
// consumption figures.
func (e *Engine) Reconcile(ctx context.Context, actor *models.User, req Request) (*Report, error) {
	if actor == nil {
		return nil, apperr.ErrAuthenticationRequired
	}

	baseID := req.BaseID
	if baseID == nil && !actor.IsAdmin() {
		if actor.BaseID == nil {
			// No explicit base and nothing to default to. Refusing beats guessing.
			return nil, apperr.ErrAmbiguousSelection
		}
		baseID = actor.BaseID
	}

	base, err := e.resolveBase(ctx, baseID)
	if err != nil {
		return nil, err
	}
	equipment, err := e.resolveEquipment(ctx, req.EquipmentTypeID)
	if err != nil {
		return nil, err
	}

	endDate := req.EndDate
	if endDate == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		endDate = &today
	}

	opening := 0
	if req.StartDate != nil {
		before := window{before: req.StartDate}
		purchases, err := e.sumQuantity(ctx, "purchases", "base_id", "purchased_at", base.ID, equipment.ID, before)
		if err != nil {
			return nil, err
		}
		transfersIn, err := e.sumQuantity(ctx, "transfers", "to_base_id", "transfer_at", base.ID, equipment.ID, before)
		if err != nil {
			return nil, err
		}
		transfersOut, err := e.sumQuantity(ctx, "transfers", "from_base_id", "transfer_at", base.ID, equipment.ID, before)
		if err != nil {
			return nil, err
		}
		assigned, err := e.sumQuantity(ctx, "assignments", "base_id", "assigned_at", base.ID, equipment.ID, before)
		if err != nil {
			return nil, err
		}
		expended, err := e.sumQuantity(ctx, "expenditures", "base_id", "expended_at", base.ID, equipment.ID, before)
		if err != nil {
			return nil, err
		}
		opening = purchases + transfersIn - transfersOut - assigned - expended
	}

	period := window{from: req.StartDate, to: endDate}
	purchasesTotal, err := e.sumQuantity(ctx, "purchases", "base_id", "purchased_at", base.ID, equipment.ID, period)
	if err != nil {
		return nil, err
	}
	transfersInTotal, err := e.sumQuantity(ctx, "transfers", "to_base_id", "transfer_at", base.ID, equipment.ID, period)
	if err != nil {
		return nil, err
	}
	transfersOutTotal, err := e.sumQuantity(ctx, "transfers", "from_base_id", "transfer_at", base.ID, equipment.ID, period)
	if err != nil {
		return nil, err
	}
	assignedTotal, err := e.sumQuantity(ctx, "assignments", "base_id", "assigned_at", base.ID, equipment.ID, period)
	if err != nil {
		return nil, err
	}
	expendedTotal, err := e.sumQuantity(ctx, "expenditures", "base_id", "expended_at", base.ID, equipment.ID, period)
	if err != nil {
		return nil, err
	}

	netMovement := purchasesTotal + transfersInTotal - transfersOutTotal

	if actor.Role == models.RoleLogistics && !actor.IsSuperuser {
		assignedTotal = 0
		expendedTotal = 0
	}

	closing := opening + netMovement - assignedTotal - expendedTotal

	return &Report{
		Base:          BaseRef{ID: base.ID, Name: base.Name, Code: base.Code},
		EquipmentType: EquipmentRef{ID: equipment.ID, Name: equipment.Name, Category: equipment.Category},
		Filters: Filters{
			StartDate: formatDate(req.StartDate),
			EndDate:   formatDate(endDate),
		},
		OpeningBalance: opening,
		ClosingBalance: closing,
		NetMovement: NetMovement{
			Total:        netMovement,
			Purchases:    purchasesTotal,
			TransfersIn:  transfersInTotal,
			TransfersOut: transfersOutTotal,
		},
		AssignedTotal: assignedTotal,
		ExpendedTotal: expendedTotal,
	}, nil
}

// window bounds one quantity sum. before is a strict upper bound used for the
// opening balance; from/to are the inclusive period bounds. All three compare
// on calendar date.
type window struct {
	before *time.Time
	from   *time.Time
	to     *time.Time
}

func (e *Engine) sumQuantity(ctx context.Context, table, baseCol, dateCol string, baseID, equipmentID int, w window) (int, error) {
	q := fmt.Sprintf(`SELECT COALESCE(SUM(quantity), 0) FROM %s WHERE %s = $1 AND equipment_type_id = $2`, table, baseCol)
	args := []interface{}{baseID, equipmentID}
	if w.before != nil {
		args = append(args, *w.before)
		q += fmt.Sprintf(" AND %s::date < $%d::date", dateCol, len(args))
	}
	if w.from != nil {
		args = append(args, *w.from)
		q += fmt.Sprintf(" AND %s::date >= $%d::date", dateCol, len(args))
	}
	if w.to != nil {
		args = append(args, *w.to)
		q += fmt.Sprintf(" AND %s::date <= $%d::date", dateCol, len(args))
	}

	var total int
	if err := e.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// resolveBase returns the single base matching the filter. Zero or multiple
// candidates fail with AmbiguousSelection so reports stay reproducible.
func (e *Engine) resolveBase(ctx context.Context, id *int) (models.Base, error) {
	q := `SELECT id, name, code, location FROM bases`
	var args []interface{}
	if id != nil {
		q += ` WHERE id = $1`
		args = append(args, *id)
	}
	q += ` ORDER BY id LIMIT 2`

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return models.Base{}, err
	}
	defer rows.Close()

	var bases []models.Base
	for rows.Next() {
		var b models.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.Location); err != nil {
			return models.Base{}, err
		}
		bases = append(bases, b)
	}
	if err := rows.Err(); err != nil {
		return models.Base{}, err
	}
	if len(bases) != 1 {
		return models.Base{}, apperr.ErrAmbiguousSelection
	}
	return bases[0], nil
}

func (e *Engine) resolveEquipment(ctx context.Context, id *int) (models.EquipmentType, error) {
	q := `SELECT id, name, category, description, unit FROM equipment_types`
	var args []interface{}
	if id != nil {
		q += ` WHERE id = $1`
		args = append(args, *id)
	}
	q += ` ORDER BY id LIMIT 2`

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return models.EquipmentType{}, err
	}
	defer rows.Close()

	var types []models.EquipmentType
	for rows.Next() {
		var t models.EquipmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.Unit); err != nil {
			return models.EquipmentType{}, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return models.EquipmentType{}, err
	}
	if len(types) != 1 {
		return models.EquipmentType{}, apperr.ErrAmbiguousSelection
	}
	return types[0], nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
