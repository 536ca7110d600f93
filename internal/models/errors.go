package models

import "errors"

// Validation errors.
var (
	ErrInvalidMaintenance = errors.New("invalid maintenance data")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmptyServiceType   = errors.New("maintenance kind must not be empty")
	ErrInvalidCost        = errors.New("cost must be a non-negative number")
	ErrBlankColor         = errors.New("color must not be blank")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
)

// Illegal transition errors. ErrAlreadyOn, ErrAlreadyOff, ErrCargoFull and
// ErrCargoEmpty leave the vehicle untouched and are reported as warnings.
var (
	ErrNotApplicable           = errors.New("operation not applicable to this vehicle")
	ErrAlreadyOn               = errors.New("vehicle is already on")
	ErrAlreadyOff              = errors.New("vehicle is already off")
	ErrNotRunning              = errors.New("vehicle must be turned on first")
	ErrMustStopFirst           = errors.New("vehicle must be stopped before turning off")
	ErrRunning                 = errors.New("vehicle must be turned off first")
	ErrCargoFull               = errors.New("cargo is already full")
	ErrCargoEmpty              = errors.New("cargo is already empty")
	ErrMaintenanceNotSupported = errors.New("vehicle does not keep maintenance records")
)

// ErrUnknownKind is returned when a discriminant does not name one of the
// five vehicle kinds.
var ErrUnknownKind = errors.New("unknown vehicle kind")

// IsWarning reports whether err is a benign "nothing to do" outcome rather
// than a rejected request.
func IsWarning(err error) bool {
	return errors.Is(err, ErrAlreadyOn) ||
		errors.Is(err, ErrAlreadyOff) ||
		errors.Is(err, ErrCargoFull) ||
		errors.Is(err, ErrCargoEmpty) ||
		errors.Is(err, ErrNotApplicable) ||
		errors.Is(err, ErrMaintenanceNotSupported)
}
