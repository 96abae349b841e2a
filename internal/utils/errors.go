package utils

type AppError struct {
	Code    string
	Message string
	Ref     string // optional id of a related record (e.g. an existing response)
	Origin  error  // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Caller is authenticated but doesn't own the resource
	ErrInvalidToken = "INVALID_TOKEN"

	// Entity-specific errors
	ErrAccountNotFound    = "ACCOUNT_NOT_FOUND"
	ErrListingNotFound    = "LISTING_NOT_FOUND"
	ErrResponseNotFound   = "RESPONSE_NOT_FOUND"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	// Collaborator errors
	ErrAssetHost = "ASSET_HOST_ERROR"

	ErrDatabase = "DATABASE_ERROR"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewAccountNotFoundError() *AppError {
	return &AppError{
		Code:    ErrAccountNotFound,
		Message: "Account not found",
	}
}

func NewListingNotFoundError() *AppError {
	return &AppError{
		Code:    ErrListingNotFound,
		Message: "Item not found",
	}
}

func NewResponseNotFoundError() *AppError {
	return &AppError{
		Code:    ErrResponseNotFound,
		Message: "Response not found",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    ErrInvalidCredentials,
		Message: "Invalid email or password",
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: "Actor communication timeout: " + actorName,
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether an error is any of the not-found variants.
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrNotFound ||
			appErr.Code == ErrAccountNotFound ||
			appErr.Code == ErrListingNotFound ||
			appErr.Code == ErrResponseNotFound
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrAccountNotFound, ErrListingNotFound, ErrResponseNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidToken, ErrInvalidCredentials:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate:
		return 409 // http.StatusConflict
	case ErrDatabase, ErrActorTimeout, ErrAssetHost:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
