package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andimendes/zap-desk-engine/pkg/contextkeys"
	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

// tenantFromContext reads the tenant the auth middleware resolved from
// the token. Every handler is tenant-scoped.
func tenantFromContext(ctx echo.Context) (int64, error) {
	tenantID, ok := ctx.Request().Context().Value(contextkeys.TenantIDKey).(int64)
	if !ok || tenantID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return tenantID, nil
}

func paramID(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInputError("invalid '%s' parameter", name)
	}
	return id, nil
}
