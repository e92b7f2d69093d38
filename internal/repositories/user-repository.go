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

const usersTable = "users"

var userColumns = []string{
	"id", "username", "email", "password_hash", "role",
	"department", "company_name", "team_id", "created_at",
}

var userAllowedFilters = map[string]string{
	"id":         "id",
	"role":       "role",
	"team_id":    "team_id",
	"username":   "username",
	"created_at": "created_at",
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
	CountByRole(ctx context.Context, role entities.UserRole) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var role string
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role,
		&u.Department, &u.CompanyName, &u.TeamID, &u.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	u.Role = entities.UserRole(role)
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.FindByIDInTx(ctx, r.storage, id)
}

func (r *UserRepository) FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(q.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).Where(sq.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) List(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	base := db.ApplySearch(
		db.ApplyFilters(psql.Select().From(usersTable), filter, userAllowedFilters),
		filter.Search, "username", "email",
	)

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	selectBuilder := db.ApplySearch(psql.Select(userColumns...).From(usersTable), filter.Search, "username", "email")
	query, args, err := db.ApplyListParams(selectBuilder, filter, userAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query, args, err := psql.Insert(usersTable).
		Columns("username", "email", "password_hash", "role", "department", "company_name", "team_id").
		Values(user.Username, user.Email, user.PasswordHash, string(user.Role), user.Department, user.CompanyName, user.TeamID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		r.logger.Warn("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return mapPgError(err)
	}
	return nil
}

// Update persists the admin-editable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query, args, err := psql.Update(usersTable).
		Set("role", string(user.Role)).
		Set("department", user.Department).
		Set("company_name", user.CompanyName).
		Set("team_id", user.TeamID).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role entities.UserRole) (uint64, error) {
	query, args, err := psql.Select("COUNT(*)").From(usersTable).Where(sq.Eq{"role": string(role)}).ToSql()
	if err != nil {
		return 0, err
	}
	var count uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
