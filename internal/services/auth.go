package services

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cfg       config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cfg:       cfg,
	}
}

// Register creates a self-service account. The role is always EMPLOYEE;
// promotion goes through the user update endpoint.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         entities.RoleEmployee,
		Department:   payload.Department,
		CompanyName:  payload.CompanyName,
		TeamID:       payload.TeamID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) {
			return nil, apperrors.NewValidationError("team %d does not exist", utils.SafeDeref(payload.TeamID))
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, user.ID)
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(userID)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	if s.cfg.MaxLoginAttempts <= 0 {
		return
	}
	attempts, err := s.cacheRepo.Incr(ctx, loginAttemptsKey(userID))
	if err != nil {
		s.logger.Warn("could not count failed login", zap.Uint64("user_id", userID), zap.Error(err))
		return
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("account locked after failed logins", zap.Uint64("user_id", userID), zap.Int64("attempts", attempts))
		_ = s.cacheRepo.Set(ctx, lockoutKey(userID), "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, loginAttemptsKey(userID))
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	_ = s.cacheRepo.Del(ctx, loginAttemptsKey(userID), lockoutKey(userID))
}

func loginAttemptsKey(userID uint64) string { return fmt.Sprintf("login_attempts:%d", userID) }
func lockoutKey(userID uint64) string       { return fmt.Sprintf("lockout:%d", userID) }
