package report

import (
	"time"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

const bucketKeyFormat = "01-2006" // MM-YYYY

// Bucket is a single calendar-month aggregation unit.
type Bucket struct {
	Key   string     `json:"key"` // MM-YYYY
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Start time.Time  `json:"start"` // first instant of the month
	End   time.Time  `json:"end"`   // last instant of the month
}

// Bucketize derives the contiguous sequence of calendar-month buckets spanning
// the earliest to the latest booking. Months with no bookings are still
// emitted. Bookings must be sorted ascending by creation time; an empty set
// yields no buckets.
func Bucketize(bookings []booking.Booking) []Bucket {
	if len(bookings) == 0 {
		return nil
	}

	first := monthStart(bookings[0].CreatedAt)
	last := monthStart(bookings[len(bookings)-1].CreatedAt)

	var buckets []Bucket
	for cur := first; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		buckets = append(buckets, Bucket{
			Key:   cur.Format(bucketKeyFormat),
			Year:  cur.Year(),
			Month: cur.Month(),
			Start: cur,
			End:   cur.AddDate(0, 1, 0).Add(-time.Nanosecond),
		})
	}
	return buckets
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
