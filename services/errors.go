package services

import (
	"errors"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindMissingParameter
	KindInvalidInput
	KindInvalidDate
	KindInvalidTime
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing parameter"
	case KindInvalidInput:
		return "invalid input"
	case KindInvalidDate:
		return "invalid date"
	case KindInvalidTime:
		return "invalid time"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal error"
	}
}

// Messages surfaced to clients. Callers and tests depend on the exact text.
const (
	MsgInternal              = "Internal server error"
	MsgTableNotFound         = "Table not found"
	MsgTablesNotFound        = "Tables not found"
	MsgTableExists           = "Table number already exists for this restaurant."
	MsgTableFieldsMissing    = "Table number and restaurant name are required"
	MsgAlreadyReserved       = "Table already reserved for this date"
	MsgReservationFields     = "Restaurant name, user, reservation date and time are required"
	MsgReservationNotFound   = "Reservation not found"
	MsgConcurrentUpdate      = "Table was modified concurrently, please retry"
	MsgInvalidDate           = "Dates must use the YYYY-MM-DD format"
	MsgDateRangeReversed     = "End date must not be before start date"
	MsgRestaurantNameMissing = "Restaurant name parameter missing"
	MsgOwnerNameMissing      = "Owner name parameter missing"
	MsgUserNameMissing       = "User name parameter missing"
	MsgRestaurantNotFound    = "Restaurant not found."
	MsgRestaurantsNotFound   = "Restaurants not found"
	MsgRestaurantExists      = "Restaurant name already in use"
	MsgMissingFields         = "Missing required fields"
	MsgInvalidStars          = "Stars must be between 0 and 5"
	MsgImageNotFound         = "Image not found"
	MsgUserNotFound          = "User not found"
	MsgEmailInUse            = "Email already in use"
	MsgOwnerNameInUse        = "Restaurant name already registered"
	MsgNameLocked            = "Name cannot change while tables are blocked or reserved under it"
	MsgWeakPassword          = "Password must be at least 6 characters"
	MsgInvalidCredentials    = "Invalid email or password..."
	MsgInvalidEmailToken     = "Invalid or expired verification token"
	MsgForbidden             = "You do not have permission"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound)
// holds for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrInternal         = &Error{Kind: KindInternal}
	ErrMissingParameter = &Error{Kind: KindMissingParameter}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrInvalidDate      = &Error{Kind: KindInvalidDate}
	ErrInvalidTime      = &Error{Kind: KindInvalidTime}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
)

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// KindOf reports the kind of err; foreign errors count as internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
