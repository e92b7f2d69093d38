package dto

import (
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name                string  `json:"name" validate:"required,max=255"`
	SerialNumber        string  `json:"serial_number" validate:"required,max=255"`
	CategoryID          *uint64 `json:"category_id"`
	Department          string  `json:"department" validate:"required,max=255"`
	Description         *string `json:"description"`
	Status              string  `json:"status" validate:"omitempty,equipment_status"`
	Location            *string `json:"location" validate:"omitempty,max=255"`
	DefaultTeamID       uint64  `json:"default_team_id" validate:"required"`
	DefaultTechnicianID uint64  `json:"default_technician_id" validate:"required"`
}

type UpdateEquipmentDTO struct {
	Name                null.String `json:"name" validate:"omitempty,max=255"`
	SerialNumber        null.String `json:"serial_number" validate:"omitempty,max=255"`
	CategoryID          null.Uint64 `json:"category_id"`
	Department          null.String `json:"department" validate:"omitempty,max=255"`
	Description         null.String `json:"description"`
	Status              null.String `json:"status" validate:"omitempty,equipment_status"`
	Location            null.String `json:"location" validate:"omitempty,max=255"`
	DefaultTeamID       null.Uint64 `json:"default_team_id"`
	DefaultTechnicianID null.Uint64 `json:"default_technician_id"`
	utils.Patch         `json:"-"`
}
