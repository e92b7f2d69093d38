package controllers

import (
	"net/http"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MaintenanceRequestController struct {
	requestService services.MaintenanceRequestServiceInterface
	logger         *zap.Logger
}

func NewMaintenanceRequestController(service services.MaintenanceRequestServiceInterface, logger *zap.Logger) *MaintenanceRequestController {
	return &MaintenanceRequestController{requestService: service, logger: logger}
}

func (c *MaintenanceRequestController) GetRequests(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.requestService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRequestDTOs(res), "Requests fetched", http.StatusOK, total)
}

// GetCalendar returns the requests scheduled or opened inside the range.
func (c *MaintenanceRequestController) GetCalendar(ctx echo.Context) error {
	start, end, err := parseRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.requestService.ListInRange(ctx.Request().Context(), start, end)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRequestDTOs(res), "Calendar fetched", http.StatusOK)
}

func (c *MaintenanceRequestController) FindRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.requestService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRequestDTO(*res), "Request found", http.StatusOK)
}

func (c *MaintenanceRequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.Create(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("CreateRequest: rejected", zap.String("title", payload.Title), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRequestDTO(*res), "Request created", http.StatusCreated)
}

func (c *MaintenanceRequestController) UpdateRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateRequestDTO
	if err := utils.BindPatch(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Warn("UpdateRequest: rejected", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.NewRequestDTO(*res), "Request updated", http.StatusOK)
}

func (c *MaintenanceRequestController) DeleteRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.requestService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// parseRange reads start_date and end_date. A bare end date covers that whole day.
func parseRange(ctx echo.Context) (time.Time, time.Time, error) {
	var params dto.ReportRangeDTO
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &params); err != nil {
		return time.Time{}, time.Time{}, badBody(err)
	}
	if params.StartDate == "" || params.EndDate == "" {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("start_date and end_date are required")
	}
	start, err := utils.ParseDateParam(params.StartDate, false)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("start_date: %v", err)
	}
	end, err := utils.ParseDateParam(params.EndDate, true)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("end_date: %v", err)
	}
	return start, end, nil
}
