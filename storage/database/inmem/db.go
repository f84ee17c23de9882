package inmemdb

import (
	"sync"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

type (
	DB struct {
		booking *bookingTable
	}

	bookingTable struct {
		sync.RWMutex
		table map[int]*booking.Booking
	}
)

func Open() (*DB, error) {
	db := &DB{
		booking: &bookingTable{table: make(map[int]*booking.Booking)},
	}
	return db, nil
}
