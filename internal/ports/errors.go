package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrValidation         = errors.New("invalid or malformed input")
	ErrNotFound           = errors.New("trade not found")
	ErrTradeNotOpen       = errors.New("trade is no longer open")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Store Specific Errors
	ErrConnectionFailed = errors.New("failed to reach the trade store")
	ErrQueryFailed      = errors.New("trade store query failed")
	ErrUpdateFailed     = errors.New("trade store update failed")
	ErrHeaderMalformed  = errors.New("trade store header row is malformed")

	// Messenger Specific Errors
	ErrSendFailed = errors.New("failed to deliver message")
)
