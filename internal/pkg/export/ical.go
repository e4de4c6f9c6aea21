package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/truewood-ems/ems-backend-go/internal/domain/holiday"
)

const icsProductID = "-//True Wood EMS//Holidays//EN"

// HolidayFeed encodes holidays as all-day VEVENTs.
func HolidayFeed(orgName string, holidays []holiday.Holiday, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.SetText("X-WR-CALNAME", orgName+" Holidays")

	for _, h := range holidays {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, h.ID+"@truewood-ems")
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDate(ical.PropDateTimeStart, h.Date)
		event.Props.SetDate(ical.PropDateTimeEnd, h.Date.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, h.Name)
		event.Props.SetText(ical.PropTransparency, "TRANSPARENT")
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHolidays reads VEVENTs from an iCalendar stream. Each event yields
// one holiday per day it spans; events without a summary or start are skipped.
func ParseHolidays(r io.Reader) ([]holiday.Holiday, error) {
	dec := ical.NewDecoder(r)
	var out []holiday.Holiday

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			summary, _ := event.Props.Text(ical.PropSummary)
			summary = strings.TrimSpace(summary)
			if summary == "" {
				continue
			}
			start, err := event.DateTimeStart(time.UTC)
			if err != nil {
				continue
			}
			first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

			days := 1
			if end, err := event.DateTimeEnd(time.UTC); err == nil {
				last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
				if n := int(last.Sub(first).Hours() / 24); n > days {
					days = n
				}
			}

			for i := 0; i < days; i++ {
				out = append(out, holiday.Holiday{Date: first.AddDate(0, 0, i), Name: summary})
			}
		}
	}

	return out, nil
}
