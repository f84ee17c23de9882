package report

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// testNow anchors every relative predicate in the engine tests.
var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func tdate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

type bkOpt func(*booking.Booking)

func newBooking(id int, created time.Time, opts ...bkOpt) booking.Booking {
	b := booking.Booking{
		ID:        id,
		Type:      booking.TypeFree,
		Status:    booking.StatusActive,
		CreatedAt: created,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func withType(t string) bkOpt {
	return func(b *booking.Booking) { b.Type = t }
}

func withStatus(s string) bkOpt {
	return func(b *booking.Booking) { b.Status = s }
}

func withTrialDate(t time.Time) bkOpt {
	return func(b *booking.Booking) { b.TrialDate = null.TimeFrom(t) }
}

func withConverted() bkOpt {
	return func(b *booking.Booking) { b.ConvertedToMember = true }
}

func withPlan(id int, price float64, interval string, duration int) bkOpt {
	return func(b *booking.Booking) {
		b.PaymentPlan = &booking.PaymentPlan{ID: id, Price: price, Interval: interval, Duration: duration}
	}
}

func withVenue(id int, name string) bkOpt {
	return func(b *booking.Booking) { b.Venue = &booking.Venue{ID: id, Name: name} }
}

func withClassVenue(classID, venueID int, venueName string) bkOpt {
	return func(b *booking.Booking) {
		b.ClassSchedule = &booking.ClassSchedule{ID: classID, Venue: &booking.Venue{ID: venueID, Name: venueName}}
	}
}

func withLead(channel string) bkOpt {
	return func(b *booking.Booking) { b.Lead = &booking.Lead{ID: b.ID, Channel: channel} }
}

func withAdmin(id int, first, last string) bkOpt {
	return func(b *booking.Booking) { b.Admin = &booking.Admin{ID: id, FirstName: first, LastName: last} }
}

func withStudent(first, last, gender, attendance string, dob, created time.Time) bkOpt {
	return func(b *booking.Booking) {
		b.Students = append(b.Students, booking.Student{
			ID:          len(b.Students) + 1,
			FirstName:   first,
			LastName:    last,
			Gender:      gender,
			Attendance:  attendance,
			DateOfBirth: dob,
			CreatedAt:   created,
		})
	}
}
