package worksite

import "errors"

var (
	ErrWorkSiteNotFound        = errors.New("work site not found")
	ErrWorkSiteNameExists      = errors.New("work site with this name already exists")
	ErrWorkSiteInUse           = errors.New("work site is referenced by attendance records")
	ErrEffectiveDateBeforeLast = errors.New("effective_from must not be before the latest schedule change")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
)
