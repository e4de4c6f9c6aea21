package timesheet

import (
	"math"
	"sort"
	"time"

	"github.com/truewood-ems/ems-backend-go/internal/domain/attendance"
	"github.com/truewood-ems/ems-backend-go/internal/domain/employee"
	"github.com/truewood-ems/ems-backend-go/internal/domain/master/category"
	"github.com/truewood-ems/ems-backend-go/internal/domain/worksite"
	"github.com/truewood-ems/ems-backend-go/internal/pkg/timeofday"
)

// ScheduleWindow is an expected or displayed work period.
type ScheduleWindow struct {
	Start        *timeofday.TimeOfDay
	End          *timeofday.TimeOfDay
	BreakMinutes int
}

// Usable reports whether both ends are present and End is after Start.
func (w ScheduleWindow) Usable() bool {
	return w.Start != nil && w.End != nil && *w.End > *w.Start
}

// Duration returns End-Start, or nil when the window is not usable.
func (w ScheduleWindow) Duration() *int {
	if !w.Usable() {
		return nil
	}
	d := int(*w.End - *w.Start)
	return &d
}

// scheduleSource is one link of the resolution chain, already parsed.
type scheduleSource struct {
	timeIn     *timeofday.TimeOfDay
	timeOut    *timeofday.TimeOfDay
	breakHours *float64
}

func newScheduleSource(timeIn, timeOut *string, breakHours *float64) scheduleSource {
	return scheduleSource{
		timeIn:     timeofday.ParseNullable(timeIn),
		timeOut:    timeofday.ParseNullable(timeOut),
		breakHours: breakHours,
	}
}

func (s scheduleSource) hasTimes() bool {
	return s.timeIn != nil || s.timeOut != nil
}

func (s scheduleSource) hasAny() bool {
	return s.hasTimes() || s.breakHours != nil
}

func (s scheduleSource) window() ScheduleWindow {
	return ScheduleWindow{
		Start:        s.timeIn,
		End:          s.timeOut,
		BreakMinutes: BreakMinutes(s.breakHours),
	}
}

type historyEntry struct {
	effectiveFrom time.Time
	source        scheduleSource
}

// ScheduleContext is the materialized schedule data for one computation run.
type ScheduleContext struct {
	categories map[string]scheduleSource
	workSites  map[string]scheduleSource
	history    map[string][]historyEntry
}

// NewScheduleContext indexes categories and work sites by id and groups the
// history per work site, sorted by effective date ascending; entries sharing a
// date keep their input order, so the later one wins. The context is
// read-only afterwards and safe for concurrent use.
func NewScheduleContext(categories []category.Category, workSites []worksite.WorkSite, history []worksite.ScheduleHistory) *ScheduleContext {
	sc := &ScheduleContext{
		categories: make(map[string]scheduleSource, len(categories)),
		workSites:  make(map[string]scheduleSource, len(workSites)),
		history:    make(map[string][]historyEntry),
	}
	for _, c := range categories {
		sc.categories[c.ID] = newScheduleSource(c.TimeIn, c.TimeOut, c.BreakHours)
	}
	for _, w := range workSites {
		sc.workSites[w.ID] = newScheduleSource(w.TimeIn, w.TimeOut, w.BreakHours)
	}
	for _, h := range history {
		sc.history[h.WorkSiteID] = append(sc.history[h.WorkSiteID], historyEntry{
			effectiveFrom: dateOnly(h.EffectiveFrom),
			source:        newScheduleSource(h.TimeIn, h.TimeOut, h.BreakHours),
		})
	}
	for id := range sc.history {
		entries := sc.history[id]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].effectiveFrom.Before(entries[j].effectiveFrom)
		})
	}
	return sc
}

// historyAsOf returns the entry with the latest effective date on or before
// date, provided it carries a time or a break.
func (sc *ScheduleContext) historyAsOf(workSiteID string, date time.Time) (scheduleSource, bool) {
	entries := sc.history[workSiteID]
	day := dateOnly(date)
	// first entry effective strictly after day
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].effectiveFrom.After(day)
	})
	if i == 0 || !entries[i-1].source.hasAny() {
		return scheduleSource{}, false
	}
	return entries[i-1].source, true
}

// EffectiveHistoryEntry applies the resolver's history rule to one work
// site's entries: the entry with the latest effective date on or before date
// wins (the later one on a tie), and it only counts when it carries a time or
// a break. Entries need not be sorted.
func EffectiveHistoryEntry(entries []worksite.ScheduleHistory, date time.Time) (worksite.ScheduleHistory, bool) {
	day := dateOnly(date)
	match := -1
	for i, h := range entries {
		from := dateOnly(h.EffectiveFrom)
		if from.After(day) {
			continue
		}
		if match < 0 || !from.Before(dateOnly(entries[match].EffectiveFrom)) {
			match = i
		}
	}
	if match < 0 {
		return worksite.ScheduleHistory{}, false
	}
	h := entries[match]
	if !newScheduleSource(h.TimeIn, h.TimeOut, h.BreakHours).hasAny() {
		return worksite.ScheduleHistory{}, false
	}
	return h, true
}

// chain lists the fallback sources after work-site history, in precedence order.
func (sc *ScheduleContext) chain(emp employee.Employee, record *attendance.Attendance) []scheduleSource {
	var sources []scheduleSource
	if record != nil && record.WorkSiteID != nil {
		if site, ok := sc.workSites[*record.WorkSiteID]; ok {
			sources = append(sources, site)
		}
	}
	if emp.CategoryID != nil {
		if c, ok := sc.categories[*emp.CategoryID]; ok {
			sources = append(sources, c)
		}
	}
	return sources
}

// ResolveExpectedWindow returns the schedule the employee was expected to
// follow on date. The work-site history entry in effect on date is used as
// is when it carries a time or a break, even if it has no times. Otherwise
// the site's current schedule, then the category defaults, are used when
// they carry a time. When nothing matches, start and end are nil and the
// break is the first one found in the chain.
func (sc *ScheduleContext) ResolveExpectedWindow(emp employee.Employee, record *attendance.Attendance, date time.Time) ScheduleWindow {
	if record != nil && record.WorkSiteID != nil {
		if h, ok := sc.historyAsOf(*record.WorkSiteID, date); ok {
			return h.window()
		}
	}

	sources := sc.chain(emp, record)
	for _, s := range sources {
		if s.hasTimes() {
			return s.window()
		}
	}

	for _, s := range sources {
		if s.breakHours != nil {
			return ScheduleWindow{BreakMinutes: BreakMinutes(s.breakHours)}
		}
	}
	return ScheduleWindow{}
}

// ResolveActualDefaultWindow is the expected window with the record's own
// times laid over it. It only feeds displayed times.
func (sc *ScheduleContext) ResolveActualDefaultWindow(emp employee.Employee, record *attendance.Attendance, date time.Time) ScheduleWindow {
	w := sc.ResolveExpectedWindow(emp, record, date)
	if record == nil {
		return w
	}
	if in := timeofday.ParseNullable(record.TimeIn); in != nil {
		w.Start = in
	}
	if out := timeofday.ParseNullable(record.TimeOut); out != nil {
		w.End = out
	}
	return w
}

// BreakMinutes converts break hours to whole minutes; nil is 0.
func BreakMinutes(hours *float64) int {
	if hours == nil {
		return 0
	}
	return int(math.Round(*hours * 60))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
