package entities

import "time"

type Equipment struct {
	ID                  uint64          `json:"id" db:"id"`
	Name                string          `json:"name" db:"name"`
	SerialNumber        string          `json:"serial_number" db:"serial_number"`
	CategoryID          *uint64         `json:"category_id" db:"category_id"`
	Department          string          `json:"department" db:"department"`
	Description         *string         `json:"description" db:"description"`
	Status              EquipmentStatus `json:"status" db:"status"`
	Location            *string         `json:"location" db:"location"`
	DefaultTeamID       uint64          `json:"default_team_id" db:"default_team_id"`
	DefaultTechnicianID uint64          `json:"default_technician_id" db:"default_technician_id"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
