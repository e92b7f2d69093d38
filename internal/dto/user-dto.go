package dto

import (
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type UpdateUserDTO struct {
	Role        null.String `json:"role" validate:"omitempty,user_role"`
	Department  null.String `json:"department" validate:"omitempty,max=255"`
	CompanyName null.String `json:"company_name" validate:"omitempty,max=255"`
	TeamID      null.Uint64 `json:"team_id"`
	utils.Patch `json:"-"`
}
