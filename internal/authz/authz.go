// Package authz decides what an actor may do. Role permissions live in one
// declarative table consulted by every handler, so the rules cannot drift
// between endpoints. Object-level base scoping is a separate set of predicates.
package authz

import "github.com/crucial707/milstock/internal/models"

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

type Entity string

const (
	EntityBase          Entity = "base"
	EntityEquipmentType Entity = "equipment_type"
	EntityPurchase      Entity = "purchase"
	EntityTransfer      Entity = "transfer"
	EntityAssignment    Entity = "assignment"
	EntityExpenditure   Entity = "expenditure"
	EntityDashboard     Entity = "dashboard"
	EntityLog           Entity = "log"
	EntityUser          Entity = "user"
)

// policy maps role -> entity -> allowed actions. Admin and superusers bypass
// the table entirely (see Can). EntityUser is absent for non-admin roles: user
// administration is admin-only, except self-reads handled in the handler.
var policy = map[string]map[Entity][]Action{
	models.RoleCommander: {
		EntityBase:          {ActionRead},
		EntityEquipmentType: {ActionRead},
		EntityPurchase:      {ActionRead, ActionCreate, ActionDelete},
		EntityTransfer:      {ActionRead, ActionCreate, ActionDelete},
		EntityAssignment:    {ActionRead, ActionCreate, ActionDelete},
		EntityExpenditure:   {ActionRead, ActionCreate, ActionDelete},
		EntityDashboard:     {ActionRead},
		EntityLog:           {ActionRead},
	},
	models.RoleLogistics: {
		EntityBase:          {ActionRead},
		EntityEquipmentType: {ActionRead},
		EntityPurchase:      {ActionRead, ActionCreate, ActionDelete},
		EntityTransfer:      {ActionRead, ActionCreate, ActionDelete},
		// Logistics may see assignments and expenditures but not mutate them;
		// their totals are additionally redacted in the dashboard report.
		EntityAssignment:  {ActionRead},
		EntityExpenditure: {ActionRead},
		EntityDashboard:   {ActionRead},
		EntityLog:         {ActionRead},
	},
}

// Can reports whether the user may perform action on the entity kind.
// Object-level scoping is checked separately via CanTouchBase/CanTouchTransfer.
func Can(u *models.User, action Action, entity Entity) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	for _, a := range policy[u.Role][entity] {
		if a == action {
			return true
		}
	}
	return false
}

// Scope restricts list queries to the actor's reach. Exactly one of the three
// shapes applies: All (admin), base-scoped, or Empty. Empty means a non-admin
// with no home base; it matches nothing and yields an empty result, not an error.
type Scope struct {
	All    bool
	Empty  bool
	BaseID int
}

// ScopeFor derives the list scope for a user.
func ScopeFor(u *models.User) Scope {
	if u.IsAdmin() {
		return Scope{All: true}
	}
	if u.BaseID == nil {
		return Scope{Empty: true}
	}
	return Scope{BaseID: *u.BaseID}
}

// CanTouchBase reports whether the user may act on a row belonging to baseID.
func CanTouchBase(u *models.User, baseID int) bool {
	if u.IsAdmin() {
		return true
	}
	return u.BaseID != nil && *u.BaseID == baseID
}

// CanTouchTransfer reports whether the user may act on a transfer involving
// fromBaseID or toBaseID.
func CanTouchTransfer(u *models.User, fromBaseID, toBaseID int) bool {
	if u.IsAdmin() {
		return true
	}
	return u.BaseID != nil && (*u.BaseID == fromBaseID || *u.BaseID == toBaseID)
}

// CanTransferFrom reports whether the user may create a transfer out of
// fromBaseID. Non-admins may only transfer out of their own base.
func CanTransferFrom(u *models.User, fromBaseID int) bool {
	if u.IsAdmin() {
		return true
	}
	return u.BaseID != nil && *u.BaseID == fromBaseID
}
