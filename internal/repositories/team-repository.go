package repositories

import (
	"context"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const teamsTable = "teams"

var teamAllowedFilters = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
}

type TeamRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Team, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error)
	Create(ctx context.Context, team *entities.Team) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &TeamRepository{storage: storage, logger: logger}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &t, nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint64) (*entities.Team, error) {
	query, args, err := psql.Select("id", "name", "description", "created_at").
		From(teamsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeam(r.storage.QueryRow(ctx, query, args...))
}

func (r *TeamRepository) List(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	countBuilder := db.ApplySearch(db.ApplyFilters(psql.Select("COUNT(*)").From(teamsTable), filter, teamAllowedFilters), filter.Search, "name")
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectBuilder := db.ApplySearch(psql.Select("id", "name", "description", "created_at").From(teamsTable), filter.Search, "name")
	query, args, err := db.ApplyListParams(selectBuilder, filter, teamAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, *t)
	}
	return teams, total, rows.Err()
}

func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	query, args, err := psql.Insert(teamsTable).
		Columns("name", "description").
		Values(team.Name, team.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&team.ID, &team.CreatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}
