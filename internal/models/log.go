package models

import "time"

// Action types recorded in the transaction log.
const (
	ActionPurchase    = "PURCHASE"
	ActionTransfer    = "TRANSFER"
	ActionAssignment  = "ASSIGNMENT"
	ActionExpenditure = "EXPENDITURE"
)

// ValidAction reports whether actionType is one of the known action constants.
func ValidAction(actionType string) bool {
	switch actionType {
	case ActionPurchase, ActionTransfer, ActionAssignment, ActionExpenditure:
		return true
	}
	return false
}

// LogDetails is the snapshot stored with every transaction log entry.
// Fields that do not apply to the transaction kind stay null so the snapshot
// remains queryable even after the source row is deleted.
type LogDetails struct {
	Base          *int `json:"base"`
	FromBase      *int `json:"from_base"`
	ToBase        *int `json:"to_base"`
	EquipmentType *int `json:"equipment_type"`
	Quantity      *int `json:"quantity"`
}

// TransactionLog is one append-only audit row. It is derived from transaction
// creation, never authored directly.
type TransactionLog struct {
	ID         int        `json:"id"`
	UserID     *int       `json:"user_id"`
	ActionType string     `json:"action_type"`
	ModelName  string     `json:"model_name"`
	ObjectID   int        `json:"object_id"`
	Timestamp  time.Time  `json:"timestamp"`
	Details    LogDetails `json:"details"`
}
