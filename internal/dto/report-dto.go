package dto

type ReportRangeDTO struct {
	StartDate string `query:"start_date" validate:"required"`
	EndDate   string `query:"end_date" validate:"required"`
}
