package dto

import (
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type CreateWorkCenterDTO struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Code        string  `json:"code" validate:"required,max=64"`
	Department  string  `json:"department" validate:"required,max=255"`
	Status      string  `json:"status" validate:"omitempty,equipment_status"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Capacity    *int    `json:"capacity" validate:"omitempty,min=0"`
	CostPerHour *int    `json:"cost_per_hour" validate:"omitempty,min=0"`
	OEETarget   *int    `json:"oee_target" validate:"omitempty,min=0,max=100"`
}

type UpdateWorkCenterDTO struct {
	Name        null.String `json:"name" validate:"omitempty,max=255"`
	Code        null.String `json:"code" validate:"omitempty,max=64"`
	Department  null.String `json:"department" validate:"omitempty,max=255"`
	Status      null.String `json:"status" validate:"omitempty,equipment_status"`
	Location    null.String `json:"location" validate:"omitempty,max=255"`
	Capacity    null.Int    `json:"capacity" validate:"omitempty,min=0"`
	CostPerHour null.Int    `json:"cost_per_hour" validate:"omitempty,min=0"`
	OEETarget   null.Int    `json:"oee_target" validate:"omitempty,min=0,max=100"`
	utils.Patch `json:"-"`
}
