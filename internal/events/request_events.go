package events

import "maintenance-system/internal/entities"

const (
	RequestCreatedEvent      = "request.created"
	RequestUpdatedEvent      = "request.updated"
	RequestStageChangedEvent = "request.stage_changed"
	RequestDeletedEvent      = "request.deleted"
	EquipmentChangedEvent    = "equipment.changed"
	UserChangedEvent         = "user.changed"
)

// RequestCreated is published after the create transaction commits.
type RequestCreated struct {
	Request entities.MaintenanceRequest
	ActorID uint64
}

func (e RequestCreated) Name() string { return RequestCreatedEvent }

type RequestUpdated struct {
	Request           entities.MaintenanceRequest
	ActorID           uint64
	TechnicianChanged bool
}

func (e RequestUpdated) Name() string { return RequestUpdatedEvent }

// RequestStageChanged is published in addition to RequestUpdated when the stage moved.
type RequestStageChanged struct {
	Request entities.MaintenanceRequest
	From    entities.RequestStage
	To      entities.RequestStage
	ActorID uint64
}

func (e RequestStageChanged) Name() string { return RequestStageChangedEvent }

type RequestDeleted struct {
	RequestID uint64
	ActorID   uint64
}

func (e RequestDeleted) Name() string { return RequestDeletedEvent }

type EquipmentChanged struct {
	EquipmentID uint64
	Action      string
}

func (e EquipmentChanged) Name() string { return EquipmentChangedEvent }

// UserChanged is published after an admin edits a user's role, team or profile.
type UserChanged struct {
	UserID      uint64
	ActorID     uint64
	RoleChanged bool
}

func (e UserChanged) Name() string { return UserChangedEvent }
