package services

import (
	"context"
	"errors"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	bus                 EventPublisher
	logger              *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		bus:                 bus,
		logger:              logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepository.List(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return s.equipmentRepository.FindByID(ctx, id)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.EquipmentCreate); err != nil {
		return nil, err
	}

	status := entities.StatusActive
	if payload.Status != "" {
		status = entities.EquipmentStatus(payload.Status)
	}
	equipment := &entities.Equipment{
		Name:                payload.Name,
		SerialNumber:        payload.SerialNumber,
		CategoryID:          payload.CategoryID,
		Department:          payload.Department,
		Description:         payload.Description,
		Status:              status,
		Location:            payload.Location,
		DefaultTeamID:       payload.DefaultTeamID,
		DefaultTechnicianID: payload.DefaultTechnicianID,
	}
	if err := s.equipmentRepository.Create(ctx, equipment); err != nil {
		return nil, referenceError(err)
	}

	s.logger.Info("equipment created", zap.Uint64("equipment_id", equipment.ID), zap.String("serial_number", equipment.SerialNumber))
	s.bus.Publish(ctx, events.EquipmentChanged{EquipmentID: equipment.ID, Action: "created"})
	return equipment, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.EquipmentUpdate); err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEquipmentPatch(equipment, payload); err != nil {
		return nil, err
	}
	if err := s.equipmentRepository.Update(ctx, equipment); err != nil {
		return nil, referenceError(err)
	}

	s.logger.Info("equipment updated", zap.Uint64("equipment_id", id), zap.Uint64("actor_id", actor.ID))
	s.bus.Publish(ctx, events.EquipmentChanged{EquipmentID: id, Action: "updated"})
	return equipment, nil
}

func applyEquipmentPatch(e *entities.Equipment, p dto.UpdateEquipmentDTO) error {
	required := map[string]bool{
		"name": p.Name.Valid, "serial_number": p.SerialNumber.Valid, "department": p.Department.Valid,
		"status": p.Status.Valid, "default_team_id": p.DefaultTeamID.Valid, "default_technician_id": p.DefaultTechnicianID.Valid,
	}
	for field, valid := range required {
		if p.Has(field) && !valid {
			return apperrors.NewValidationError("%s cannot be null", field)
		}
	}

	if p.Name.Valid {
		e.Name = p.Name.String
	}
	if p.SerialNumber.Valid {
		e.SerialNumber = p.SerialNumber.String
	}
	if p.Department.Valid {
		e.Department = p.Department.String
	}
	if p.Status.Valid {
		e.Status = entities.EquipmentStatus(p.Status.String)
	}
	if p.DefaultTeamID.Valid {
		e.DefaultTeamID = p.DefaultTeamID.Uint64
	}
	if p.DefaultTechnicianID.Valid {
		e.DefaultTechnicianID = p.DefaultTechnicianID.Uint64
	}
	if p.Sent(p.CategoryID.Valid, "category_id") {
		e.CategoryID = p.CategoryID.Ptr()
	}
	if p.Sent(p.Description.Valid, "description") {
		e.Description = p.Description.Ptr()
	}
	if p.Sent(p.Location.Valid, "location") {
		e.Location = p.Location.Ptr()
	}
	return nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.EquipmentDelete); err != nil {
		return err
	}
	if err := s.equipmentRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("equipment deleted", zap.Uint64("equipment_id", id), zap.Uint64("actor_id", actor.ID))
	s.bus.Publish(ctx, events.EquipmentChanged{EquipmentID: id, Action: "deleted"})
	return nil
}

// referenceError reports a dangling team, technician or category id as a client error.
func referenceError(err error) error {
	if errors.Is(err, apperrors.ErrInvalidReference) {
		return apperrors.NewValidationError("referenced team, technician or category does not exist")
	}
	return err
}
