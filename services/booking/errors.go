package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable rejection reasons for the reservation protocol.
const (
	ReasonServiceNotFound       = "SERVICE_NOT_FOUND"
	ReasonServiceInactive       = "SERVICE_INACTIVE"
	ReasonProviderRequired      = "PROVIDER_REQUIRED"
	ReasonAlreadyBooked         = "ALREADY_BOOKED"
	ReasonHoldNotFound          = "HOLD_NOT_FOUND"
	ReasonHoldDifferentCustomer = "HOLD_RESERVED_FOR_DIFFERENT_CUSTOMER"
	ReasonHoldDifferentProvider = "HOLD_RESERVED_FOR_DIFFERENT_PROVIDER"
	ReasonAppointmentNotFound   = "APPOINTMENT_NOT_FOUND"
	ReasonNotCancellable        = "APPOINTMENT_NOT_CANCELLABLE"
)

// BookingError is a domain-state conflict carrying a reason code the client
// can act on, as opposed to an infrastructure failure.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBookingError(code, message string) error {
	return &BookingError{Code: code, Message: message}
}

// ReasonOf extracts the reason code from an error chain, or "" when the error
// is not a domain conflict.
func ReasonOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// StatusOf maps a reason code to its HTTP status.
func StatusOf(code string) int {
	switch code {
	case ReasonServiceNotFound, ReasonHoldNotFound, ReasonAppointmentNotFound:
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}
