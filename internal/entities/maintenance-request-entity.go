package entities

import (
	"fmt"
	"time"
)

type TargetKind string

const (
	TargetEquipment  TargetKind = "equipment"
	TargetWorkCenter TargetKind = "work_center"
)

func (k TargetKind) Valid() bool {
	return k == TargetEquipment || k == TargetWorkCenter
}

// MaintenanceTarget is the thing a request is about: one piece of equipment or one work center.
type MaintenanceTarget struct {
	Kind TargetKind `json:"kind"`
	ID   uint64     `json:"id"`
}

func EquipmentTarget(id uint64) MaintenanceTarget {
	return MaintenanceTarget{Kind: TargetEquipment, ID: id}
}

func WorkCenterTarget(id uint64) MaintenanceTarget {
	return MaintenanceTarget{Kind: TargetWorkCenter, ID: id}
}

// EquipmentID returns the equipment id when the target is equipment.
func (t MaintenanceTarget) EquipmentID() (uint64, bool) {
	return t.ID, t.Kind == TargetEquipment
}

// WorkCenterID returns the work center id when the target is a work center.
func (t MaintenanceTarget) WorkCenterID() (uint64, bool) {
	return t.ID, t.Kind == TargetWorkCenter
}

// Columns splits the target into the nullable storage columns.
func (t MaintenanceTarget) Columns() (maintenanceFor string, equipmentID, workCenterID *uint64) {
	id := t.ID
	switch t.Kind {
	case TargetEquipment:
		return string(t.Kind), &id, nil
	case TargetWorkCenter:
		return string(t.Kind), nil, &id
	}
	return string(t.Kind), nil, nil
}

// TargetFromColumns rebuilds a target from its storage columns.
func TargetFromColumns(maintenanceFor string, equipmentID, workCenterID *uint64) (MaintenanceTarget, error) {
	switch {
	case equipmentID != nil && workCenterID == nil:
		return EquipmentTarget(*equipmentID), nil
	case workCenterID != nil && equipmentID == nil:
		return WorkCenterTarget(*workCenterID), nil
	}
	return MaintenanceTarget{}, fmt.Errorf("maintenance target is ambiguous (maintenance_for=%q)", maintenanceFor)
}

type MaintenanceRequest struct {
	ID              uint64            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	RequestType     RequestType       `json:"request_type"`
	Priority        RequestPriority   `json:"priority"`
	Stage           RequestStage      `json:"stage"`
	Target          MaintenanceTarget `json:"target"`
	TeamID          *uint64           `json:"team_id"`
	TechnicianID    *uint64           `json:"technician_id"`
	ReporterID      uint64            `json:"reporter_id"`
	CompanyName     *string           `json:"company_name"`
	ScheduledDate   *time.Time        `json:"scheduled_date"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	DurationMinutes *int              `json:"duration_minutes"`
	CreatedAt       time.Time         `json:"created_at"`
}
