package http

import (
	"net/http"
	"strconv"
	"time"

	timesheetsvc "github.com/truewood-ems/ems-backend-go/internal/service/timesheet"
)

// optionalQuery returns nil when the parameter is missing or blank.
func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// intQuery parses an integer parameter, falling back to def when it is missing.
func intQuery(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// yearMonthQuery reads year and month, defaulting to the working month containing today.
func yearMonthQuery(r *http.Request) (year, month int, ok bool) {
	curYear, curMonth := timesheetsvc.WorkingMonthOf(time.Now())
	year, err := intQuery(r, "year", curYear)
	if err != nil {
		return 0, 0, false
	}
	month, err = intQuery(r, "month", int(curMonth))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
