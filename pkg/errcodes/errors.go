package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Data carries extra machine-readable context, e.g. remaining capacity.
	Data map[string]interface{}
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Data = err.Data
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Unauthorized returns a 401 error. It's used when there is no authenticated
// user at all.
func Unauthorized(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  msg,
		Code:     "unauthorized",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  action + " is not allowed.",
		Code:     "forbidden",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

func InvalidFilter(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "invalid_filter",
	}
}

// CapacityExceeded is returned when an add would push a list past its
// template's size. remaining is how many more items the list can take.
func CapacityExceeded(remaining int) error {
	if remaining < 0 {
		remaining = 0
	}
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Can only add %d more items.", remaining),
		Code:     "capacity_exceeded",
		Data:     map[string]interface{}{"remaining": remaining},
	}
}

func DuplicateItem() error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  "Item is already in this list.",
		Code:     "duplicate_item",
	}
}

func DuplicateList() error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  "You already have this list.",
		Code:     "duplicate_list",
	}
}

func InvalidReorder(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "invalid_reorder",
	}
}

// StaleList is returned when a caller's view of a list's size no longer
// matches what is stored.
func StaleList(expected, actual int) error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  fmt.Sprintf("List has %d items, expected %d.", actual, expected),
		Code:     "stale_list",
		Data:     map[string]interface{}{"expected": expected, "actual": actual},
	}
}

func TooManyRequests() error {
	return &Error{
		HTTPCode: http.StatusTooManyRequests,
		Message:  "Too many requests. Try again later.",
		Code:     "too_many_requests",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}

func UsernameTaken() error {
	return &Error{
		HTTPCode: http.StatusConflict,
		Message:  "That username is already taken.",
		Code:     "username_taken",
	}
}
