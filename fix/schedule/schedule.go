// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule implements SessionSchedule (spec.md §4.4): the
// time-zone-aware window a session is expected to be logged on within, and
// the boundary-crossing check that triggers a daily sequence-number reset.
package schedule

import (
	"time"
)

// TimeOfDay is a wall-clock time within a day, to second resolution.
type TimeOfDay struct {
	Hour, Minute, Second int
}

func (t TimeOfDay) secondsOfDay() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Schedule answers the two questions spec.md §4.4 requires of a
// SessionSchedule: whether a given instant falls inside the session's
// configured window, and whether a schedule boundary was crossed between
// two instants (the daily reset trigger).
//
// A zero-value Schedule (no start/end of anything, NonStopSession false) is
// always in session, matching a dictionary-less FIX session with no
// configured trading hours.
type Schedule struct {
	Location *time.Location

	// StartTime/EndTime bound the daily session window in Location's wall
	// clock. They take effect only through WithTimeWindow (haveTimeWindow);
	// until it is applied the daily window is unrestricted, whatever values
	// the fields hold.
	StartTime, EndTime TimeOfDay
	haveTimeWindow     bool

	// StartDay/EndDay bound the week, inclusive, e.g. Monday..Friday. Unset
	// (haveDayWindow false) means every day of the week.
	StartDay, EndDay time.Weekday
	haveDayWindow    bool

	// NonStopSession makes IsSessionTime always true and disables the daily
	// reset that IsNewSession would otherwise compute from the time window.
	NonStopSession bool
}

// New returns a Schedule with no configured window: NonStop-equivalent
// until WithTimeWindow/WithDayWindow are applied.
func New(loc *time.Location) *Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return &Schedule{Location: loc}
}

// WithTimeWindow configures the daily start/end time-of-day window, in
// Location's wall clock. end before start is interpreted as crossing
// midnight (e.g. 22:00–06:00).
func (s *Schedule) WithTimeWindow(start, end TimeOfDay) *Schedule {
	s.StartTime, s.EndTime = start, end
	s.haveTimeWindow = true
	return s
}

// WithDayWindow configures the inclusive start/end day-of-week window.
func (s *Schedule) WithDayWindow(start, end time.Weekday) *Schedule {
	s.StartDay, s.EndDay = start, end
	s.haveDayWindow = true
	return s
}

// IsSessionTime reports whether now falls within the configured window.
func (s *Schedule) IsSessionTime(now time.Time) bool {
	if s.NonStopSession {
		return true
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	if s.haveDayWindow && !s.dayInWindow(local.Weekday()) {
		return false
	}
	if s.haveTimeWindow && !s.timeInWindow(local) {
		return false
	}
	return true
}

func (s *Schedule) dayInWindow(day time.Weekday) bool {
	if s.StartDay <= s.EndDay {
		return day >= s.StartDay && day <= s.EndDay
	}
	// wraps across the week boundary, e.g. Fri..Mon
	return day >= s.StartDay || day <= s.EndDay
}

func (s *Schedule) timeInWindow(local time.Time) bool {
	sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
	start, end := s.StartTime.secondsOfDay(), s.EndTime.secondsOfDay()
	if start <= end {
		return sec >= start && sec < end
	}
	// wraps past midnight, e.g. 22:00..06:00
	return sec >= start || sec < end
}

// IsNewSession reports whether a schedule boundary fell strictly between
// creationTime and now, meaning the session's sequence numbers should be
// reset (spec.md §4.5.6). With NonStopSession or no configured time window
// there is no boundary to cross.
func (s *Schedule) IsNewSession(creationTime, now time.Time) bool {
	if s.NonStopSession || !s.haveTimeWindow {
		return false
	}
	if !now.After(creationTime) {
		return false
	}
	boundary := s.nextBoundaryAfter(creationTime)
	return !boundary.After(now)
}

// nextBoundaryAfter returns the next StartTime occurrence strictly after t,
// in Location's wall clock, respecting any configured day window.
func (s *Schedule) nextBoundaryAfter(t time.Time) time.Time {
	local := t.In(s.Location)
	candidate := time.Date(local.Year(), local.Month(), local.Day(),
		s.StartTime.Hour, s.StartTime.Minute, s.StartTime.Second, 0, s.Location)
	if !candidate.After(local) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	if s.haveDayWindow {
		for i := 0; i < 7 && !s.dayInWindow(candidate.Weekday()); i++ {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}
	return candidate
}
