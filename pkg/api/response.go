package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/andimendes/zap-desk-engine/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// SuccessOne returns a single object.
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64, page, limit int) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}

	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{
		List: list,
		Pagination: &PaginationMeta{
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		},
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}

// sentinelCodes maps engine sentinels onto HTTP status codes.
var sentinelCodes = []struct {
	err  error
	code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrQuotationExists, http.StatusConflict},
	{apperrors.ErrStageInUse, http.StatusConflict},
	{apperrors.ErrBoardStale, http.StatusConflict},
	{apperrors.ErrUnknownStage, http.StatusUnprocessableEntity},
	{apperrors.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{apperrors.ErrQuotationFrozen, http.StatusUnprocessableEntity},
	{apperrors.ErrPipelineReadOnly, http.StatusUnprocessableEntity},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
}

func ErrorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := err.Error()

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	switch {
	case errors.As(err, &httpErr):
		// For HttpError only the user-facing message leaves the server.
		code = httpErr.Code
		msg = httpErr.Message
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		msg = inputErr.Message
	default:
		for _, s := range sentinelCodes {
			if errors.Is(err, s.err) {
				code = s.code
				msg = s.err.Error()
				break
			}
		}
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
