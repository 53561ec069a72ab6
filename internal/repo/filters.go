package repo

import (
	"fmt"
	"time"
)

// LedgerFilter carries the optional list filters shared by the transaction
// endpoints. Nil fields are no-ops. Filters are conjunctive, and date bounds
// are inclusive, compared on the calendar date of the transaction's defining
// timestamp (purchased_at, transfer_at, assigned_at, expended_at).
type LedgerFilter struct {
	BaseID          *int
	EquipmentTypeID *int
	StartDate       *time.Time
	EndDate         *time.Time
}

// condBuilder accumulates WHERE conditions with positional args.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// add appends an arg and a condition; format must contain one %d for the
// placeholder index, which may be referenced more than once.
func (b *condBuilder) add(format string, v interface{}) {
	b.args = append(b.args, v)
	n := len(b.args)
	b.conds = append(b.conds, fmt.Sprintf(format, n))
}

// dateRange appends calendar-date bounds on col for the given filter.
func (b *condBuilder) dateRange(col string, f LedgerFilter) {
	if f.StartDate != nil {
		b.add(col+"::date >= $%d::date", *f.StartDate)
	}
	if f.EndDate != nil {
		b.add(col+"::date <= $%d::date", *f.EndDate)
	}
}

func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	q := " WHERE " + b.conds[0]
	for _, c := range b.conds[1:] {
		q += " AND " + c
	}
	return q
}
