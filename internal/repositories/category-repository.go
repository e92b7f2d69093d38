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

const categoriesTable = "categories"

var categoryAllowedFilters = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
}

type CategoryRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Category, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Category, uint64, error)
	Create(ctx context.Context, category *entities.Category) error
}

type CategoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCategoryRepository(storage *pgxpool.Pool, logger *zap.Logger) CategoryRepositoryInterface {
	return &CategoryRepository{storage: storage, logger: logger}
}

func scanCategory(row pgx.Row) (*entities.Category, error) {
	var c entities.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (*entities.Category, error) {
	query, args, err := psql.Select("id", "name", "description", "created_at").
		From(categoriesTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCategory(r.storage.QueryRow(ctx, query, args...))
}

func (r *CategoryRepository) List(ctx context.Context, filter types.Filter) ([]entities.Category, uint64, error) {
	countBuilder := db.ApplySearch(db.ApplyFilters(psql.Select("COUNT(*)").From(categoriesTable), filter, categoryAllowedFilters), filter.Search, "name")
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectBuilder := db.ApplySearch(psql.Select("id", "name", "description", "created_at").From(categoriesTable), filter.Search, "name")
	query, args, err := db.ApplyListParams(selectBuilder, filter, categoryAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	categories := make([]entities.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, *c)
	}
	return categories, total, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, category *entities.Category) error {
	query, args, err := psql.Insert(categoriesTable).
		Columns("name", "description").
		Values(category.Name, category.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&category.ID, &category.CreatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}
