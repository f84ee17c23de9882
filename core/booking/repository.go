package booking

import "context"

type Repository interface {
	// QueryReportBookings returns every booking eligible for reporting (it has
	// a trial date, or its type is free or paid), eagerly populated with its
	// students, payment plan, venue, class schedule, lead and creating admin,
	// sorted ascending by creation time.
	QueryReportBookings(ctx context.Context) ([]Booking, error)
}
