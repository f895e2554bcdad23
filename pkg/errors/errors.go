package errors

import "fmt"

var (
	// Tokens and auth.
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrEmptyAuthHeader      = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader    = fmt.Errorf("authorization header is malformed")
	ErrUnauthorized         = fmt.Errorf("unauthorized")
	ErrForbidden            = fmt.Errorf("access denied")

	// Context.
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")

	// Common.
	ErrNotFound   = fmt.Errorf("record not found")
	ErrConflict   = fmt.Errorf("record already exists")
	ErrBadRequest = fmt.Errorf("bad request")

	// Pipeline engine.
	ErrUnknownStage     = fmt.Errorf("stage does not belong to the pipeline")
	ErrStageInUse       = fmt.Errorf("stage still has cards assigned to it")
	ErrPipelineReadOnly = fmt.Errorf("the ticket pipeline is fixed and cannot be modified")
	ErrBoardStale       = fmt.Errorf("board state is stale, reload required")

	// Quotations.
	ErrQuotationExists   = fmt.Errorf("deal already has a quotation")
	ErrQuotationFrozen   = fmt.Errorf("line items can only be changed while the quotation is a draft")
	ErrInvalidTransition = fmt.Errorf("status transition is not allowed")
)

// InvalidInputError carries a validation message safe to show to the caller.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError pairs a user-facing message with an HTTP status code and keeps
// the underlying cause for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
