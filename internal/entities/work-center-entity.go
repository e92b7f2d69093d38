package entities

import "time"

const DefaultOEETarget = 85

type WorkCenter struct {
	ID          uint64          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Code        string          `json:"code" db:"code"`
	Department  string          `json:"department" db:"department"`
	Status      EquipmentStatus `json:"status" db:"status"`
	Location    *string         `json:"location" db:"location"`
	Capacity    int             `json:"capacity" db:"capacity"`
	CostPerHour int             `json:"cost_per_hour" db:"cost_per_hour"`
	OEETarget   int             `json:"oee_target" db:"oee_target"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
