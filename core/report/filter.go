package report

import (
	"strings"
	"time"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// ApplyFilter returns the bookings matching every constraint set on filter.
// Absent options impose no constraint; an empty filter matches everything.
// now anchors the relative period and age predicates.
func ApplyFilter(bookings []booking.Booking, filter booking.QueryFilter, now time.Time) []booking.Booking {
	if filter.IsEmpty() {
		return bookings
	}
	out := make([]booking.Booking, 0, len(bookings))
	for i := range bookings {
		if matches(&bookings[i], filter, now) {
			out = append(out, bookings[i])
		}
	}
	return out
}

func matches(b *booking.Booking, f booking.QueryFilter, now time.Time) bool {
	if f.StudentName != "" && !matchesStudentName(b, f.StudentName) {
		return false
	}
	if f.VenueName != "" {
		v := b.ResolveVenue()
		if v == nil || !strings.EqualFold(v.Name, f.VenueName) {
			return false
		}
	}
	if f.VenueID != 0 {
		v := b.ResolveVenue()
		if v == nil || v.ID != f.VenueID {
			return false
		}
	}
	if f.ClassScheduleID != 0 {
		if b.ClassSchedule == nil || b.ClassSchedule.ID != f.ClassScheduleID {
			return false
		}
	}
	if f.PlanInterval != "" && f.PlanDuration != 0 {
		p := b.PaymentPlan
		if p == nil || !strings.EqualFold(p.Interval, f.PlanInterval) || p.Duration != f.PlanDuration {
			return false
		}
	}
	if f.AdminName != "" && !matchesAdminName(b, f.AdminName) {
		return false
	}
	if !matchesAgeBand(b, f.Age, now) {
		return false
	}
	return matchesPeriod(b, f.Period, now)
}

func matchesStudentName(b *booking.Booking, name string) bool {
	name = strings.ToLower(name)
	for _, s := range b.Students {
		if strings.Contains(strings.ToLower(s.FirstName), name) ||
			strings.Contains(strings.ToLower(s.LastName), name) {
			return true
		}
	}
	return false
}

func matchesAdminName(b *booking.Booking, name string) bool {
	if b.Admin == nil {
		return false
	}
	name = strings.ToLower(name)
	return strings.Contains(strings.ToLower(b.Admin.FirstName), name) ||
		strings.Contains(strings.ToLower(b.Admin.LastName), name)
}

func matchesAgeBand(b *booking.Booking, band string, now time.Time) bool {
	switch band {
	case booking.AgeUnder18:
		for _, s := range b.Students {
			if s.Age(now) < 18 {
				return true
			}
		}
		return false
	case booking.Age18To25:
		for _, s := range b.Students {
			if age := s.Age(now); age >= 18 && age <= 25 {
				return true
			}
		}
		return false
	}
	return true // "" and allAges: no constraint
}

func matchesPeriod(b *booking.Booking, period string, now time.Time) bool {
	switch period {
	case booking.PeriodThisMonth:
		return b.CreatedAt.Year() == now.Year() && b.CreatedAt.Month() == now.Month()
	case booking.PeriodThisQuarter:
		return b.CreatedAt.Year() == now.Year() && quarterOf(b.CreatedAt.Month()) == quarterOf(now.Month())
	case booking.PeriodThisYear:
		return b.CreatedAt.Year() == now.Year()
	}
	return true
}

func quarterOf(m time.Month) int {
	return (int(m) - 1) / 3
}
