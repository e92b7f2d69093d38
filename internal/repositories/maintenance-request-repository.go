package repositories

import (
	"context"
	"time"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const requestsTable = "maintenance_requests"

var requestColumns = []string{
	"id", "title", "description", "request_type", "priority", "stage",
	"maintenance_for", "equipment_id", "work_center_id", "team_id", "technician_id",
	"reporter_id", "company_name", "scheduled_date", "started_at", "completed_at",
	"duration_minutes", "created_at",
}

var requestAllowedFilters = map[string]string{
	"id":             "id",
	"equipment_id":   "equipment_id",
	"work_center_id": "work_center_id",
	"technician_id":  "technician_id",
	"team_id":        "team_id",
	"stage":          "stage",
	"priority":       "priority",
	"request_type":   "request_type",
	"scheduled_date": "scheduled_date",
	"created_at":     "created_at",
}

type MaintenanceRequestRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.MaintenanceRequest, error)
	List(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error)
	CreateInTx(ctx context.Context, q Querier, req *entities.MaintenanceRequest) error
	UpdateInTx(ctx context.Context, q Querier, req *entities.MaintenanceRequest) error
	Delete(ctx context.Context, id uint64) error
	CountByStages(ctx context.Context, stages []entities.RequestStage) (uint64, error)
}

type MaintenanceRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRequestRepositoryInterface {
	return &MaintenanceRequestRepository{storage: storage, logger: logger}
}

func scanMaintenanceRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var (
		req                       entities.MaintenanceRequest
		requestType, priority     string
		stage, maintenanceFor     string
		equipmentID, workCenterID *uint64
	)
	err := row.Scan(
		&req.ID, &req.Title, &req.Description, &requestType, &priority, &stage,
		&maintenanceFor, &equipmentID, &workCenterID, &req.TeamID, &req.TechnicianID,
		&req.ReporterID, &req.CompanyName, &req.ScheduledDate, &req.StartedAt, &req.CompletedAt,
		&req.DurationMinutes, &req.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err)
	}

	target, err := entities.TargetFromColumns(maintenanceFor, equipmentID, workCenterID)
	if err != nil {
		return nil, err
	}
	req.Target = target
	req.RequestType = entities.RequestType(requestType)
	req.Priority = entities.RequestPriority(priority)
	req.Stage = entities.RequestStage(stage)
	return &req, nil
}

func (r *MaintenanceRequestRepository) scanAll(rows pgx.Rows) ([]entities.MaintenanceRequest, error) {
	defer rows.Close()
	items := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		req, err := scanMaintenanceRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	return items, rows.Err()
}

func (r *MaintenanceRequestRepository) FindByID(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	return r.FindByIDInTx(ctx, r.storage, id)
}

func (r *MaintenanceRequestRepository) FindByIDInTx(ctx context.Context, q Querier, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Select(requestColumns...).From(requestsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanMaintenanceRequest(q.QueryRow(ctx, query, args...))
}

func (r *MaintenanceRequestRepository) List(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	countBuilder := db.ApplySearch(
		db.ApplyFilters(psql.Select("COUNT(*)").From(requestsTable), filter, requestAllowedFilters),
		filter.Search, "title", "description",
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
		return []entities.MaintenanceRequest{}, 0, nil
	}

	selectBuilder := db.ApplySearch(psql.Select(requestColumns...).From(requestsTable), filter.Search, "title", "description")
	query, args, err := db.ApplyListParams(selectBuilder, filter, requestAllowedFilters).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListInRange returns requests scheduled in [start, end] or created in [start, end].
func (r *MaintenanceRequestRepository) ListInRange(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error) {
	query, args, err := psql.Select(requestColumns...).
		From(requestsTable).
		Where(sq.Or{
			sq.And{sq.GtOrEq{"scheduled_date": start}, sq.LtOrEq{"scheduled_date": end}},
			sq.And{sq.GtOrEq{"created_at": start}, sq.LtOrEq{"created_at": end}},
		}).
		OrderBy("COALESCE(scheduled_date, created_at) ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *MaintenanceRequestRepository) CreateInTx(ctx context.Context, q Querier, req *entities.MaintenanceRequest) error {
	maintenanceFor, equipmentID, workCenterID := req.Target.Columns()
	query, args, err := psql.Insert(requestsTable).
		Columns(
			"title", "description", "request_type", "priority", "stage",
			"maintenance_for", "equipment_id", "work_center_id", "team_id", "technician_id",
			"reporter_id", "company_name", "scheduled_date",
		).
		Values(
			req.Title, req.Description, string(req.RequestType), string(req.Priority), string(req.Stage),
			maintenanceFor, equipmentID, workCenterID, req.TeamID, req.TechnicianID,
			req.ReporterID, req.CompanyName, req.ScheduledDate,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := q.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		r.logger.Warn("failed to insert maintenance request", zap.String("title", req.Title), zap.Error(err))
		return mapPgError(err)
	}
	return nil
}

// UpdateInTx writes the full mutable state of the request.
func (r *MaintenanceRequestRepository) UpdateInTx(ctx context.Context, q Querier, req *entities.MaintenanceRequest) error {
	query, args, err := psql.Update(requestsTable).
		SetMap(map[string]interface{}{
			"title":            req.Title,
			"description":      req.Description,
			"priority":         string(req.Priority),
			"stage":            string(req.Stage),
			"team_id":          req.TeamID,
			"technician_id":    req.TechnicianID,
			"scheduled_date":   req.ScheduledDate,
			"started_at":       req.StartedAt,
			"completed_at":     req.CompletedAt,
			"duration_minutes": req.DurationMinutes,
		}).
		Where(sq.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRequestRepository) Delete(ctx context.Context, id uint64) error {
	query, args, err := psql.Delete(requestsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRequestRepository) CountByStages(ctx context.Context, stages []entities.RequestStage) (uint64, error) {
	values := make([]string, 0, len(stages))
	for _, s := range stages {
		values = append(values, string(s))
	}
	query, args, err := psql.Select("COUNT(*)").From(requestsTable).Where(sq.Eq{"stage": values}).ToSql()
	if err != nil {
		return 0, err
	}
	var count uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
