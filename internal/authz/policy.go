package authz

import (
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

type Action string

const (
	EquipmentCreate Action = "equipment:create"
	EquipmentUpdate Action = "equipment:update"
	EquipmentDelete Action = "equipment:delete"

	WorkCenterCreate Action = "work_center:create"
	WorkCenterUpdate Action = "work_center:update"
	WorkCenterDelete Action = "work_center:delete"

	TeamCreate     Action = "team:create"
	CategoryCreate Action = "category:create"
	UserUpdate     Action = "user:update"

	RequestCreate Action = "request:create"
	RequestUpdate Action = "request:update"
	RequestDelete Action = "request:delete"

	ReportView   Action = "report:view"
	ReportExport Action = "report:export"
)

var (
	managers = []entities.UserRole{entities.RoleAdmin, entities.RoleManager}
	everyone = []entities.UserRole{entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleEmployee}
)

var policy = map[Action][]entities.UserRole{
	EquipmentCreate:  managers,
	EquipmentUpdate:  managers,
	EquipmentDelete:  managers,
	WorkCenterCreate: managers,
	WorkCenterUpdate: managers,
	WorkCenterDelete: managers,
	TeamCreate:       managers,
	CategoryCreate:   managers,
	UserUpdate:       managers,

	RequestCreate: everyone,
	RequestUpdate: everyone,
	RequestDelete: everyone,
	ReportView:    everyone,
	ReportExport:  everyone,
}

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role entities.UserRole, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns ErrForbidden unless the actor may perform action.
func Authorize(actor *entities.User, action Action) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	if !Can(actor.Role, action) {
		return apperrors.ErrForbidden
	}
	return nil
}
