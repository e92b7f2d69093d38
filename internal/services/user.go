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

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	bus      EventPublisher
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, bus EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, bus: bus, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.UserUpdate); err != nil {
		s.logger.Warn("user update denied", zap.Uint64("actor_id", actor.ID), zap.Uint64("user_id", id))
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousRole := user.Role
	if payload.Sent(payload.Role.Valid, "role") {
		role := entities.UserRole(payload.Role.String)
		if !payload.Role.Valid || !role.Valid() {
			return nil, apperrors.NewValidationError("role must be one of ADMIN, MANAGER, TECHNICIAN, EMPLOYEE")
		}
		user.Role = role
	}
	if payload.Sent(payload.Department.Valid, "department") {
		user.Department = payload.Department.Ptr()
	}
	if payload.Sent(payload.CompanyName.Valid, "company_name") {
		user.CompanyName = payload.CompanyName.Ptr()
	}
	if payload.Sent(payload.TeamID.Valid, "team_id") {
		user.TeamID = payload.TeamID.Ptr()
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) {
			return nil, apperrors.NewValidationError("team %d does not exist", utils.SafeDeref(user.TeamID))
		}
		return nil, err
	}
	s.bus.Publish(ctx, events.UserChanged{UserID: user.ID, ActorID: actor.ID, RoleChanged: previousRole != user.Role})
	s.logger.Info("user updated", zap.Uint64("user_id", user.ID), zap.Uint64("actor_id", actor.ID), zap.String("role", string(user.Role)))
	return user, nil
}
