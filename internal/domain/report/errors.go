package report

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrReportEmpty       = errors.New("no active employees for this period")
)
