package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const workCentersTable = "work_centers"

var workCenterColumns = []string{
	"id", "name", "code", "department", "status", "location",
	"capacity", "cost_per_hour", "oee_target", "created_at",
}

var workCenterAllowedFilters = map[string]string{
	"id":         "id",
	"status":     "status",
	"department": "department",
	"code":       "code",
	"name":       "name",
	"created_at": "created_at",
}

type WorkCenterRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.WorkCenter, error)
	FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.WorkCenter, error)
	List(ctx context.Context, filter types.Filter) ([]entities.WorkCenter, uint64, error)
	Create(ctx context.Context, wc *entities.WorkCenter) error
	Update(ctx context.Context, wc *entities.WorkCenter) error
	Delete(ctx context.Context, id uint64) error
}

type WorkCenterRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkCenterRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkCenterRepositoryInterface {
	return &WorkCenterRepository{storage: storage, logger: logger}
}

func scanWorkCenter(row pgx.Row) (*entities.WorkCenter, error) {
	var wc entities.WorkCenter
	var status string
	err := row.Scan(
		&wc.ID, &wc.Name, &wc.Code, &wc.Department, &status, &wc.Location,
		&wc.Capacity, &wc.CostPerHour, &wc.OEETarget, &wc.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	wc.Status = entities.EquipmentStatus(status)
	return &wc, nil
}

func (r *WorkCenterRepository) FindByID(ctx context.Context, id uint64) (*entities.WorkCenter, error) {
	return r.FindByIDInTx(ctx, r.storage, id)
}

func (r *WorkCenterRepository) FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.WorkCenter, error) {
	query, args, err := psql.Select(workCenterColumns...).From(workCentersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanWorkCenter(q.QueryRow(ctx, query, args...))
}

func (r *WorkCenterRepository) List(ctx context.Context, filter types.Filter) ([]entities.WorkCenter, uint64, error) {
	countBuilder := db.ApplySearch(
		db.ApplyFilters(psql.Select("COUNT(*)").From(workCentersTable), filter, workCenterAllowedFilters),
		filter.Search, "name", "code",
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.WorkCenter{}, 0, nil
	}

	selectBuilder := db.ApplySearch(psql.Select(workCenterColumns...).From(workCentersTable), filter.Search, "name", "code")
	query, args, err := db.ApplyListParams(selectBuilder, filter, workCenterAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.WorkCenter, 0)
	for rows.Next() {
		wc, err := scanWorkCenter(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *wc)
	}
	return items, total, rows.Err()
}

func (r *WorkCenterRepository) Create(ctx context.Context, wc *entities.WorkCenter) error {
	query, args, err := psql.Insert(workCentersTable).
		Columns("name", "code", "department", "status", "location", "capacity", "cost_per_hour", "oee_target").
		Values(wc.Name, wc.Code, wc.Department, string(wc.Status), wc.Location, wc.Capacity, wc.CostPerHour, wc.OEETarget).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&wc.ID, &wc.CreatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *WorkCenterRepository) Update(ctx context.Context, wc *entities.WorkCenter) error {
	query, args, err := psql.Update(workCentersTable).
		SetMap(map[string]interface{}{
			"name":          wc.Name,
			"code":          wc.Code,
			"department":    wc.Department,
			"status":        string(wc.Status),
			"location":      wc.Location,
			"capacity":      wc.Capacity,
			"cost_per_hour": wc.CostPerHour,
			"oee_target":    wc.OEETarget,
		}).
		Where(sq.Eq{"id": wc.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkCenterRepository) Delete(ctx context.Context, id uint64) error {
	query, args, err := psql.Delete(workCentersTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: work center %d is referenced by maintenance requests", apperrors.ErrConflict, id)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
