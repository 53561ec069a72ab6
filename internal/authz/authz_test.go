package authz

import (
	"testing"

	"github.com/crucial707/milstock/internal/models"
)

func intPtr(v int) *int { return &v }

func TestCan_RoleTable(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	commander := &models.User{ID: 2, Role: models.RoleCommander, BaseID: intPtr(1)}
	logistics := &models.User{ID: 3, Role: models.RoleLogistics, BaseID: intPtr(1)}
	super := &models.User{ID: 4, Role: models.RoleLogistics, IsSuperuser: true}

	cases := []struct {
		name   string
		user   *models.User
		action Action
		entity Entity
		want   bool
	}{
		{"admin creates base", admin, ActionCreate, EntityBase, true},
		{"admin deletes user", admin, ActionDelete, EntityUser, true},
		{"superuser overrides role", super, ActionCreate, EntityExpenditure, true},
		{"commander creates expenditure", commander, ActionCreate, EntityExpenditure, true},
		{"commander reads base", commander, ActionRead, EntityBase, true},
		{"commander cannot create base", commander, ActionCreate, EntityBase, false},
		{"commander cannot manage users", commander, ActionRead, EntityUser, false},
		{"logistics creates purchase", logistics, ActionCreate, EntityPurchase, true},
		{"logistics creates transfer", logistics, ActionCreate, EntityTransfer, true},
		{"logistics reads assignment", logistics, ActionRead, EntityAssignment, true},
		{"logistics cannot create assignment", logistics, ActionCreate, EntityAssignment, false},
		{"logistics cannot delete expenditure", logistics, ActionDelete, EntityExpenditure, false},
		{"logistics reads dashboard", logistics, ActionRead, EntityDashboard, true},
		{"nil user denied", nil, ActionRead, EntityBase, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.user, tc.action, tc.entity); got != tc.want {
				t.Errorf("Can(%v, %v, %v) = %v, want %v", tc.user, tc.action, tc.entity, got, tc.want)
			}
		})
	}
}

func TestScopeFor(t *testing.T) {
	admin := &models.User{Role: models.RoleAdmin}
	if s := ScopeFor(admin); !s.All {
		t.Errorf("admin scope: %+v, want All", s)
	}

	homeless := &models.User{Role: models.RoleCommander}
	if s := ScopeFor(homeless); !s.Empty {
		t.Errorf("no-home-base scope: %+v, want Empty", s)
	}

	scoped := &models.User{Role: models.RoleLogistics, BaseID: intPtr(7)}
	s := ScopeFor(scoped)
	if s.All || s.Empty || s.BaseID != 7 {
		t.Errorf("scoped: %+v, want BaseID 7", s)
	}
}

func TestObjectScoping(t *testing.T) {
	commander := &models.User{Role: models.RoleCommander, BaseID: intPtr(1)}
	homeless := &models.User{Role: models.RoleCommander}
	admin := &models.User{Role: models.RoleAdmin}

	if !CanTouchBase(commander, 1) {
		t.Error("commander should touch own base")
	}
	if CanTouchBase(commander, 2) {
		t.Error("commander must not touch another base")
	}
	if CanTouchBase(homeless, 1) {
		t.Error("user without home base must not touch any base")
	}
	if !CanTouchBase(admin, 99) {
		t.Error("admin touches every base")
	}

	if !CanTouchTransfer(commander, 1, 2) || !CanTouchTransfer(commander, 2, 1) {
		t.Error("commander should touch transfers involving own base")
	}
	if CanTouchTransfer(commander, 2, 3) {
		t.Error("commander must not touch unrelated transfers")
	}

	if !CanTransferFrom(commander, 1) {
		t.Error("commander should transfer out of own base")
	}
	if CanTransferFrom(commander, 2) {
		t.Error("commander must not transfer out of another base")
	}
}
