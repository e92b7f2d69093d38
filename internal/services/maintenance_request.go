package services

import (
	"context"
	"errors"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventPublisher is the part of eventbus.Bus the services need.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type MaintenanceRequestServiceInterface interface {
	Create(ctx context.Context, in dto.CreateRequestDTO) (*entities.MaintenanceRequest, error)
	Update(ctx context.Context, id uint64, in dto.UpdateRequestDTO) (*entities.MaintenanceRequest, error)
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	List(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error)
	ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error)
}

type MaintenanceRequestService struct {
	txManager     repositories.TxManagerInterface
	requestRepo   repositories.MaintenanceRequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	workCenterRep repositories.WorkCenterRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	bus           EventPublisher
	now           func() time.Time
	logger        *zap.Logger
}

func NewMaintenanceRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.MaintenanceRequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	workCenterRepo repositories.WorkCenterRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus EventPublisher,
	now func() time.Time,
	logger *zap.Logger,
) *MaintenanceRequestService {
	if now == nil {
		now = time.Now
	}
	return &MaintenanceRequestService{
		txManager:     txManager,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		workCenterRep: workCenterRepo,
		userRepo:      userRepo,
		bus:           bus,
		now:           now,
		logger:        logger,
	}
}

// resolveTarget turns the two optional ids into exactly one target.
func resolveTarget(in dto.CreateRequestDTO) (entities.MaintenanceTarget, error) {
	var target entities.MaintenanceTarget
	switch {
	case in.EquipmentID == nil && in.WorkCenterID == nil:
		return target, apperrors.NewValidationError("either equipment_id or work_center_id is required")
	case in.EquipmentID != nil && in.WorkCenterID != nil:
		return target, apperrors.NewValidationError("equipment_id and work_center_id are mutually exclusive")
	case in.EquipmentID != nil:
		target = entities.EquipmentTarget(*in.EquipmentID)
	default:
		target = entities.WorkCenterTarget(*in.WorkCenterID)
	}

	if in.MaintenanceFor != "" && entities.TargetKind(in.MaintenanceFor) != target.Kind {
		return target, apperrors.NewValidationError("maintenance_for %q does not match the supplied %s id", in.MaintenanceFor, target.Kind)
	}
	return target, nil
}

func (s *MaintenanceRequestService) Create(ctx context.Context, in dto.CreateRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.RequestCreate); err != nil {
		return nil, err
	}

	target, err := resolveTarget(in)
	if err != nil {
		return nil, err
	}

	requestType := entities.RequestType(in.RequestType)
	if !requestType.Valid() {
		return nil, apperrors.NewValidationError("unknown request_type %q", in.RequestType)
	}
	if requestType == entities.RequestPreventive && in.ScheduledDate == nil {
		return nil, apperrors.NewValidationError("scheduled_date is required for preventive requests")
	}

	priority := entities.PriorityMedium
	if in.Priority != "" {
		priority = entities.RequestPriority(in.Priority)
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority %q", in.Priority)
		}
	}

	req := &entities.MaintenanceRequest{
		Title:         in.Title,
		Description:   in.Description,
		RequestType:   requestType,
		Priority:      priority,
		Stage:         entities.StageNew,
		Target:        target,
		TeamID:        in.TeamID,
		TechnicianID:  in.TechnicianID,
		ReporterID:    actor.ID,
		CompanyName:   actor.CompanyName,
		ScheduledDate: in.ScheduledDate,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkTarget(ctx, tx, req); err != nil {
			return err
		}
		if req.TechnicianID != nil {
			if err := s.checkTechnician(ctx, tx, *req.TechnicianID, req.TeamID); err != nil {
				return err
			}
		}
		return s.requestRepo.CreateInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance request created",
		zap.Uint64("request_id", req.ID),
		zap.String("target", string(req.Target.Kind)),
		zap.Uint64("target_id", req.Target.ID),
		zap.Uint64("reporter_id", actor.ID),
	)
	s.bus.Publish(ctx, events.RequestCreated{Request: *req, ActorID: actor.ID})
	return req, nil
}

// checkTarget makes sure the target exists and fills the team from equipment defaults.
func (s *MaintenanceRequestService) checkTarget(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	if equipmentID, ok := req.Target.EquipmentID(); ok {
		equipment, err := s.equipmentRepo.FindByIDInTx(ctx, tx, equipmentID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("equipment %d does not exist", equipmentID)
		}
		if err != nil {
			return err
		}
		if req.TeamID == nil {
			teamID := equipment.DefaultTeamID
			req.TeamID = &teamID
		}
		return nil
	}

	workCenterID, _ := req.Target.WorkCenterID()
	_, err := s.workCenterRep.FindByIDInTx(ctx, tx, workCenterID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewValidationError("work center %d does not exist", workCenterID)
	}
	return err
}

// checkTechnician enforces that a technician only works on requests of their own team.
// A request without a team accepts any existing user.
func (s *MaintenanceRequestService) checkTechnician(ctx context.Context, tx pgx.Tx, technicianID uint64, teamID *uint64) error {
	technician, err := s.userRepo.FindByIDInTx(ctx, tx, technicianID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewAssignmentError("technician %d does not exist", technicianID)
	}
	if err != nil {
		return err
	}
	if teamID == nil {
		return nil
	}
	if technician.TeamID == nil || *technician.TeamID != *teamID {
		return apperrors.NewAssignmentError("technician %d is not a member of team %d", technicianID, *teamID)
	}
	return nil
}

func (s *MaintenanceRequestService) Update(ctx context.Context, id uint64, in dto.UpdateRequestDTO) (*entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.RequestUpdate); err != nil {
		return nil, err
	}

	var (
		req            *entities.MaintenanceRequest
		previous       entities.RequestStage
		prevTechnician *uint64
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		req, err = s.requestRepo.FindByIDInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = req.Stage
		prevTechnician = req.TechnicianID

		if in.TechnicianID.Valid {
			if err := s.checkTechnician(ctx, tx, in.TechnicianID.Uint64, req.TeamID); err != nil {
				return err
			}
		}

		if in.Sent(in.Stage.Valid, "stage") {
			if !in.Stage.Valid {
				return apperrors.NewValidationError("stage cannot be null")
			}
			if err := s.applyStage(ctx, tx, req, entities.RequestStage(in.Stage.String)); err != nil {
				return err
			}
		}

		if err := applyRequestPatch(req, in); err != nil {
			return err
		}
		return s.requestRepo.UpdateInTx(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.RequestUpdated{
		Request:           *req,
		ActorID:           actor.ID,
		TechnicianChanged: utils.DiffPtr(prevTechnician, req.TechnicianID),
	})
	if req.Stage != previous {
		s.logger.Info("maintenance request stage changed",
			zap.Uint64("request_id", req.ID),
			zap.String("from", string(previous)),
			zap.String("to", string(req.Stage)),
			zap.Uint64("actor_id", actor.ID),
		)
		s.bus.Publish(ctx, events.RequestStageChanged{Request: *req, From: previous, To: req.Stage, ActorID: actor.ID})
	}
	return req, nil
}

// applyStage moves the request to next. Side effects depend on the stage the
// request is entering and are judged against the stage it held before.
func (s *MaintenanceRequestService) applyStage(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest, next entities.RequestStage) error {
	if !next.Valid() {
		return apperrors.NewValidationError("unknown stage %q", next)
	}
	previous := req.Stage
	if previous.IsRegression(next) {
		s.logger.Warn("maintenance request stage moved backwards",
			zap.Uint64("request_id", req.ID),
			zap.String("from", string(previous)),
			zap.String("to", string(next)),
		)
	}

	now := s.now()
	switch next {
	case entities.StageScrap:
		if previous != entities.StageScrap {
			if err := s.scrapEquipment(ctx, tx, req); err != nil {
				return err
			}
		}
	case entities.StageInProgress:
		// started_at is stamped once and survives regressions.
		if req.StartedAt == nil {
			req.StartedAt = &now
		}
	case entities.StageRepaired:
		if previous != entities.StageRepaired {
			req.CompletedAt = &now
			req.DurationMinutes = nil
			if req.StartedAt != nil {
				minutes := utils.FloorMinutes(*req.StartedAt, now)
				req.DurationMinutes = &minutes
			}
		}
	}
	req.Stage = next
	return nil
}

func (s *MaintenanceRequestService) scrapEquipment(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) error {
	equipmentID, ok := req.Target.EquipmentID()
	if !ok {
		return nil
	}
	if _, err := s.equipmentRepo.FindByIDInTx(ctx, tx, equipmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("scrapped request points at missing equipment", zap.Uint64("request_id", req.ID), zap.Uint64("equipment_id", equipmentID))
			return nil
		}
		return err
	}
	if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, equipmentID, entities.StatusScrap); err != nil {
		return err
	}
	s.logger.Info("equipment scrapped", zap.Uint64("equipment_id", equipmentID), zap.Uint64("request_id", req.ID))
	return nil
}

// applyRequestPatch copies the plain fields of the patch. Absent keys are left
// alone; an explicit null clears the nullable ones.
func applyRequestPatch(req *entities.MaintenanceRequest, in dto.UpdateRequestDTO) error {
	if in.Sent(in.Title.Valid, "title") {
		if !in.Title.Valid {
			return apperrors.NewValidationError("title cannot be null")
		}
		req.Title = in.Title.String
	}
	if in.Sent(in.Description.Valid, "description") {
		if !in.Description.Valid {
			return apperrors.NewValidationError("description cannot be null")
		}
		req.Description = in.Description.String
	}
	if in.Sent(in.Priority.Valid, "priority") {
		if !in.Priority.Valid {
			return apperrors.NewValidationError("priority cannot be null")
		}
		priority := entities.RequestPriority(in.Priority.String)
		if !priority.Valid() {
			return apperrors.NewValidationError("unknown priority %q", in.Priority.String)
		}
		req.Priority = priority
	}
	if in.Sent(in.TechnicianID.Valid, "technician_id") {
		req.TechnicianID = nil
		if in.TechnicianID.Valid {
			technicianID := in.TechnicianID.Uint64
			req.TechnicianID = &technicianID
		}
	}
	if in.Sent(in.ScheduledDate.Valid, "scheduled_date") {
		req.ScheduledDate = nil
		if in.ScheduledDate.Valid {
			scheduled := in.ScheduledDate.Time
			req.ScheduledDate = &scheduled
		}
	}
	return nil
}

func (s *MaintenanceRequestService) Delete(ctx context.Context, id uint64) error {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, authz.RequestDelete); err != nil {
		return err
	}
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("maintenance request deleted", zap.Uint64("request_id", id), zap.Uint64("actor_id", actor.ID))
	s.bus.Publish(ctx, events.RequestDeleted{RequestID: id, ActorID: actor.ID})
	return nil
}

func (s *MaintenanceRequestService) Get(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	return s.requestRepo.FindByID(ctx, id)
}

func (s *MaintenanceRequestService) List(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	return s.requestRepo.List(ctx, filter)
}

func (s *MaintenanceRequestService) ListInRange(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error) {
	if start.After(end) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date")
	}
	return s.requestRepo.ListInRange(ctx, start, end)
}

func (s *MaintenanceRequestService) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	items, _, err := s.requestRepo.List(ctx, types.Filter{
		Filter: map[string]interface{}{"equipment_id": equipmentID},
		Sort:   map[string]string{"created_at": "desc"},
	})
	return items, err
}
