package httperr

import "errors"

// Business error codes used across the queue engine.
const (
	CodeAlreadyQueued     = "already_queued"
	CodeServiceNotFound   = "service_not_found"
	CodeEntryNotFound     = "entry_not_found"
	CodeIllegalTransition = "illegal_transition"
	CodeStaleEntry        = "stale_entry"
	CodeUnauthorized      = "unauthorized"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code carried by a business error, if any.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
