package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrInvalidEmployeeCode     = errors.New("invalid employee code format")
	ErrFutureDateNotAllowed    = errors.New("date cannot be in the future")
	ErrEmployeeHasAttendance   = errors.New("employee has attendance records, deactivate instead")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrInvalidReference        = errors.New("category or department does not exist")
)
