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

const equipmentTable = "equipment"

var equipmentColumns = []string{
	"id", "name", "serial_number", "category_id", "department", "description",
	"status", "location", "default_team_id", "default_technician_id", "created_at",
}

var equipmentAllowedFilters = map[string]string{
	"id":              "id",
	"category_id":     "category_id",
	"status":          "status",
	"department":      "department",
	"default_team_id": "default_team_id",
	"name":            "name",
	"created_at":      "created_at",
}

type EquipmentRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	Create(ctx context.Context, equipment *entities.Equipment) error
	Update(ctx context.Context, equipment *entities.Equipment) error
	UpdateStatusInTx(ctx context.Context, q Querier, id uint64, status entities.EquipmentStatus) error
	Delete(ctx context.Context, id uint64) error
	CountNotInStatus(ctx context.Context, status entities.EquipmentStatus) (uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var status string
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &e.Department, &e.Description,
		&status, &e.Location, &e.DefaultTeamID, &e.DefaultTechnicianID, &e.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	e.Status = entities.EquipmentStatus(status)
	return &e, nil
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return r.FindByIDInTx(ctx, r.storage, id)
}

func (r *EquipmentRepository) FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.Equipment, error) {
	query, args, err := psql.Select(equipmentColumns...).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(q.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	countBuilder := db.ApplySearch(
		db.ApplyFilters(psql.Select("COUNT(*)").From(equipmentTable), filter, equipmentAllowedFilters),
		filter.Search, "name", "serial_number",
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
		return []entities.Equipment{}, 0, nil
	}

	selectBuilder := db.ApplySearch(psql.Select(equipmentColumns...).From(equipmentTable), filter.Search, "name", "serial_number")
	query, args, err := db.ApplyListParams(selectBuilder, filter, equipmentAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, total, rows.Err()
}

func (r *EquipmentRepository) Create(ctx context.Context, e *entities.Equipment) error {
	query, args, err := psql.Insert(equipmentTable).
		Columns("name", "serial_number", "category_id", "department", "description",
			"status", "location", "default_team_id", "default_technician_id").
		Values(e.Name, e.SerialNumber, e.CategoryID, e.Department, e.Description,
			string(e.Status), e.Location, e.DefaultTeamID, e.DefaultTechnicianID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *EquipmentRepository) Update(ctx context.Context, e *entities.Equipment) error {
	query, args, err := psql.Update(equipmentTable).
		SetMap(map[string]interface{}{
			"name":                  e.Name,
			"serial_number":         e.SerialNumber,
			"category_id":           e.CategoryID,
			"department":            e.Department,
			"description":           e.Description,
			"status":                string(e.Status),
			"location":              e.Location,
			"default_team_id":       e.DefaultTeamID,
			"default_technician_id": e.DefaultTechnicianID,
		}).
		Where(sq.Eq{"id": e.ID}).
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

func (r *EquipmentRepository) UpdateStatusInTx(ctx context.Context, q Querier, id uint64, status entities.EquipmentStatus) error {
	query, args, err := psql.Update(equipmentTable).Set("status", string(status)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete refuses to remove equipment that requests still point at.
func (r *EquipmentRepository) Delete(ctx context.Context, id uint64) error {
	query, args, err := psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: equipment %d is referenced by maintenance requests", apperrors.ErrConflict, id)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) CountNotInStatus(ctx context.Context, status entities.EquipmentStatus) (uint64, error) {
	query, args, err := psql.Select("COUNT(*)").From(equipmentTable).Where(sq.NotEq{"status": string(status)}).ToSql()
	if err != nil {
		return 0, err
	}
	var count uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
