package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidTimeOfDay reports whether s is an "HH:MM" value the timesheet engine can read.
func IsValidTimeOfDay(s string) bool {
	_, ok := timeofday.Parse(s)
	return ok
}

// IsValidBreakHours accepts 0 to 12 hours.
func IsValidBreakHours(h float64) bool {
	return h >= 0 && h <= 12
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Za-z0-9\-]{2,20}$`)

func IsValidEmployeeCode(code string) bool {
	return employeeCodeRegex.MatchString(code)
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}

// ValidateOptionalTime appends an error when a provided time value cannot be parsed.
func ValidateOptionalTime(errs ValidationErrors, field string, value *string) ValidationErrors {
	if value == nil || IsEmpty(*value) {
		return errs
	}
	if !IsValidTimeOfDay(*value) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: field + " must be in HH:MM format",
		})
	}
	return errs
}

// ValidateOptionalBreak appends an error when a provided break duration is out of range.
func ValidateOptionalBreak(errs ValidationErrors, field string, value *float64) ValidationErrors {
	if value == nil {
		return errs
	}
	if !IsValidBreakHours(*value) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: field + " must be between 0 and 12",
		})
	}
	return errs
}
