package leavetype

import "errors"

var (
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrLeaveTypeCodeExists = errors.New("leave type with this code already exists")
	ErrLeaveTypeInUse      = errors.New("leave type is used by attendance records")
)
