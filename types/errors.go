package types

import (
	"errors"
	"fmt"
)

// DispatchError is the error type returned by every stage of a dispatch.
type DispatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *DispatchError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrDistributionLookup  = "DISTRIBUTION_LOOKUP_ERROR"
	ErrInvalidAmount       = "INVALID_AMOUNT"
	ErrInvalidAddressInput = "INVALID_ADDRESS_INPUT"
	ErrAccountLookup       = "ACCOUNT_LOOKUP_ERROR"
	ErrProgramNotFound     = "PROGRAM_NOT_FOUND"
	ErrEncoding            = "ENCODING_ERROR"
	ErrPreflightFailed     = "PREFLIGHT_FAILED"
	ErrUserRejected        = "USER_REJECTED"
	ErrSigning             = "SIGNING_ERROR"
	ErrSubmission          = "SUBMISSION_ERROR"
	ErrConfirmationTimeout = "CONFIRMATION_TIMEOUT"
	ErrConfirmationPoll    = "CONFIRMATION_POLL_ERROR"
	ErrTransactionFailed   = "TRANSACTION_FAILED"
	ErrConfigError         = "CONFIG_ERROR"
	ErrUnsupportedNetwork  = "UNSUPPORTED_NETWORK"
)

// NewError wraps err under code with a short message.
func NewError(code, message string, err error) *DispatchError {
	return &DispatchError{Code: code, Message: message, Err: err}
}

// Errorf builds a DispatchError without a wrapped cause.
func Errorf(code, format string, args ...any) *DispatchError {
	return &DispatchError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first DispatchError in err's chain, or ""
// if there is none.
func CodeOf(err error) string {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
