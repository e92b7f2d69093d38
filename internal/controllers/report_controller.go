package controllers

import (
	"fmt"
	"net/http"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheet      = "Requests"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportTimeLayout = "2006-01-02 15:04"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger, now: time.Now}
}

func (c *ReportController) GetStats(ctx echo.Context) error {
	stats, err := c.reportService.GetStats(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Stats computed", http.StatusOK)
}

func (c *ReportController) ExportRequests(ctx echo.Context) error {
	start, end, err := parseRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.reportService.GetRequestsForExport(ctx.Request().Context(), start, end)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, items)
}

var exportHeaders = []interface{}{
	"ID", "Title", "Type", "Priority", "Stage", "Maintenance For", "Target ID",
	"Team ID", "Technician ID", "Scheduled", "Started", "Completed", "Duration (min)", "Created",
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

func formatID(id *uint64) interface{} {
	if id == nil {
		return ""
	}
	return *id
}

func rowToSlice(item entities.MaintenanceRequest) []interface{} {
	var duration interface{} = ""
	if item.DurationMinutes != nil {
		duration = *item.DurationMinutes
	}
	return []interface{}{
		item.ID, item.Title, string(item.RequestType), string(item.Priority), string(item.Stage),
		string(item.Target.Kind), item.Target.ID,
		formatID(item.TeamID), formatID(item.TechnicianID),
		formatTime(item.ScheduledDate), formatTime(item.StartedAt), formatTime(item.CompletedAt),
		duration, item.CreatedAt.Format(exportTimeLayout),
	}
}

func buildWorkbook(items []entities.MaintenanceRequest) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	for i, item := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "B", 40)
	_ = f.SetColWidth(exportSheet, "F", "F", 16)
	_ = f.SetColWidth(exportSheet, "J", "N", 18)
	return f, nil
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, items []entities.MaintenanceRequest) error {
	f, err := buildWorkbook(items)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	fileName := fmt.Sprintf("maintenance_requests_%s.xlsx", c.now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
