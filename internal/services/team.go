package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error)
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	return s.teamRepo.List(ctx, filter)
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	return s.teamRepo.FindByID(ctx, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.TeamCreate); err != nil {
		return nil, err
	}

	team := &entities.Team{Name: payload.Name, Description: payload.Description}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	s.logger.Info("team created", zap.Uint64("team_id", team.ID), zap.String("name", team.Name))
	return team, nil
}
