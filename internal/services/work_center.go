package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type WorkCenterServiceInterface interface {
	GetWorkCenters(ctx context.Context, filter types.Filter) ([]entities.WorkCenter, uint64, error)
	FindWorkCenter(ctx context.Context, id uint64) (*entities.WorkCenter, error)
	CreateWorkCenter(ctx context.Context, payload dto.CreateWorkCenterDTO) (*entities.WorkCenter, error)
	UpdateWorkCenter(ctx context.Context, id uint64, payload dto.UpdateWorkCenterDTO) (*entities.WorkCenter, error)
	DeleteWorkCenter(ctx context.Context, id uint64) error
}

type WorkCenterService struct {
	workCenterRepo repositories.WorkCenterRepositoryInterface
	logger         *zap.Logger
}

func NewWorkCenterService(workCenterRepo repositories.WorkCenterRepositoryInterface, logger *zap.Logger) *WorkCenterService {
	return &WorkCenterService{workCenterRepo: workCenterRepo, logger: logger}
}

func (s *WorkCenterService) GetWorkCenters(ctx context.Context, filter types.Filter) ([]entities.WorkCenter, uint64, error) {
	return s.workCenterRepo.List(ctx, filter)
}

func (s *WorkCenterService) FindWorkCenter(ctx context.Context, id uint64) (*entities.WorkCenter, error) {
	return s.workCenterRepo.FindByID(ctx, id)
}

func (s *WorkCenterService) CreateWorkCenter(ctx context.Context, payload dto.CreateWorkCenterDTO) (*entities.WorkCenter, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.WorkCenterCreate); err != nil {
		return nil, err
	}

	status := entities.StatusActive
	if payload.Status != "" {
		status = entities.EquipmentStatus(payload.Status)
	}
	oee := entities.DefaultOEETarget
	if payload.OEETarget != nil {
		oee = *payload.OEETarget
	}
	wc := &entities.WorkCenter{
		Name:        payload.Name,
		Code:        payload.Code,
		Department:  payload.Department,
		Status:      status,
		Location:    payload.Location,
		Capacity:    utils.SafeDeref(payload.Capacity),
		CostPerHour: utils.SafeDeref(payload.CostPerHour),
		OEETarget:   oee,
	}
	if err := s.workCenterRepo.Create(ctx, wc); err != nil {
		return nil, err
	}
	s.logger.Info("work center created", zap.Uint64("work_center_id", wc.ID), zap.String("code", wc.Code))
	return wc, nil
}

func (s *WorkCenterService) UpdateWorkCenter(ctx context.Context, id uint64, payload dto.UpdateWorkCenterDTO) (*entities.WorkCenter, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.WorkCenterUpdate); err != nil {
		return nil, err
	}

	wc, err := s.workCenterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	required := map[string]bool{
		"name": payload.Name.Valid, "code": payload.Code.Valid, "department": payload.Department.Valid,
		"status": payload.Status.Valid, "capacity": payload.Capacity.Valid,
		"cost_per_hour": payload.CostPerHour.Valid, "oee_target": payload.OEETarget.Valid,
	}
	for field, valid := range required {
		if payload.Has(field) && !valid {
			return nil, apperrors.NewValidationError("%s cannot be null", field)
		}
	}
	if payload.Name.Valid {
		wc.Name = payload.Name.String
	}
	if payload.Code.Valid {
		wc.Code = payload.Code.String
	}
	if payload.Department.Valid {
		wc.Department = payload.Department.String
	}
	if payload.Status.Valid {
		wc.Status = entities.EquipmentStatus(payload.Status.String)
	}
	if payload.Sent(payload.Location.Valid, "location") {
		wc.Location = payload.Location.Ptr()
	}
	if payload.Capacity.Valid {
		wc.Capacity = payload.Capacity.Int
	}
	if payload.CostPerHour.Valid {
		wc.CostPerHour = payload.CostPerHour.Int
	}
	if payload.OEETarget.Valid {
		wc.OEETarget = payload.OEETarget.Int
	}

	if err := s.workCenterRepo.Update(ctx, wc); err != nil {
		return nil, err
	}
	s.logger.Info("work center updated", zap.Uint64("work_center_id", id), zap.Uint64("actor_id", actor.ID))
	return wc, nil
}

func (s *WorkCenterService) DeleteWorkCenter(ctx context.Context, id uint64) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.WorkCenterDelete); err != nil {
		return err
	}
	if err := s.workCenterRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("work center deleted", zap.Uint64("work_center_id", id), zap.Uint64("actor_id", actor.ID))
	return nil
}
