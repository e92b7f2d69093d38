package dto

import (
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type CreateRequestDTO struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Description    string     `json:"description" validate:"required"`
	RequestType    string     `json:"request_type" validate:"required,request_type"`
	Priority       string     `json:"priority" validate:"omitempty,request_priority"`
	MaintenanceFor string     `json:"maintenance_for" validate:"omitempty,maintenance_for"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
	EquipmentID    *uint64    `json:"equipment_id"`
	WorkCenterID   *uint64    `json:"work_center_id"`
	TeamID         *uint64    `json:"team_id"`
	TechnicianID   *uint64    `json:"technician_id"`
}

type UpdateRequestDTO struct {
	Title         null.String `json:"title" validate:"omitempty,max=255"`
	Description   null.String `json:"description"`
	Stage         null.String `json:"stage" validate:"omitempty,request_stage"`
	Priority      null.String `json:"priority" validate:"omitempty,request_priority"`
	TechnicianID  null.Uint64 `json:"technician_id"`
	ScheduledDate null.Time   `json:"scheduled_date"`
	utils.Patch   `json:"-"`
}

// RequestDTO is the wire shape of a request, with the target split back into
// maintenance_for plus the two id columns.
type RequestDTO struct {
	ID              uint64     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	RequestType     string     `json:"request_type"`
	Priority        string     `json:"priority"`
	Stage           string     `json:"stage"`
	MaintenanceFor  string     `json:"maintenance_for"`
	EquipmentID     *uint64    `json:"equipment_id"`
	WorkCenterID    *uint64    `json:"work_center_id"`
	TeamID          *uint64    `json:"team_id"`
	TechnicianID    *uint64    `json:"technician_id"`
	ReporterID      uint64     `json:"reporter_id"`
	CompanyName     *string    `json:"company_name"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewRequestDTO(r entities.MaintenanceRequest) RequestDTO {
	maintenanceFor, equipmentID, workCenterID := r.Target.Columns()
	return RequestDTO{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		RequestType:     string(r.RequestType),
		Priority:        string(r.Priority),
		Stage:           string(r.Stage),
		MaintenanceFor:  maintenanceFor,
		EquipmentID:     equipmentID,
		WorkCenterID:    workCenterID,
		TeamID:          r.TeamID,
		TechnicianID:    r.TechnicianID,
		ReporterID:      r.ReporterID,
		CompanyName:     r.CompanyName,
		ScheduledDate:   r.ScheduledDate,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		DurationMinutes: r.DurationMinutes,
		CreatedAt:       r.CreatedAt,
	}
}

func NewRequestDTOs(items []entities.MaintenanceRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(items))
	for _, r := range items {
		out = append(out, NewRequestDTO(r))
	}
	return out
}
