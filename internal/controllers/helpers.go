package controllers

import (
	"net/http"
	"strconv"

	apperrors "maintenance-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Invalid "+name+" parameter",
			err,
			map[string]interface{}{"param": raw},
		)
	}
	return id, nil
}

func badBody(err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err, nil)
}
