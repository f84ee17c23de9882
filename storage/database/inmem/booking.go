package inmemdb

import (
	"context"
	"sort"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

var pkCount int

type bookingRepository struct {
	db *bookingTable
}

var _ booking.Repository = (*bookingRepository)(nil) // interface compliance check

func NewBookingRepository(db *DB) *bookingRepository {
	return &bookingRepository{db: db.booking}
}

// CreateBooking stores a copy of b, assigning an ID when none is set.
// Used by tests and the dev seeder.
func (repo *bookingRepository) CreateBooking(b booking.Booking) booking.Booking {
	repo.db.Lock()
	defer repo.db.Unlock()

	if b.ID == 0 {
		pkCount++
		b.ID = pkCount
	}
	repo.db.table[b.ID] = &b
	return b
}

func (repo *bookingRepository) QueryReportBookings(_ context.Context) ([]booking.Booking, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	bookings := make([]booking.Booking, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		if b.TrialDate.Valid || b.Type == booking.TypeFree || b.Type == booking.TypePaid {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}
