package main

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// seedDemoData loads a small, deterministic booking dataset for local
// development. Running it twice duplicates rows; reset the DB first.
func seedDemoData(db *sql.DB) error {
	dbx := sqlx.NewDb(db, "postgres")

	var (
		venueIDs [2]int
		adminIDs [2]int
		planIDs  [2]int
		leadIDs  [2]int
	)

	venues := []string{"Harrow", "Watford"}
	for i, name := range venues {
		if err := dbx.Get(&venueIDs[i], `INSERT INTO venues (name) VALUES ($1) RETURNING id`, name); err != nil {
			return errors.Wrap(err, "seeding venues")
		}
	}

	admins := [][2]string{{"Jane", "Doe"}, {"John", "Smith"}}
	for i, a := range admins {
		if err := dbx.Get(
			&adminIDs[i],
			`INSERT INTO admins (first_name, last_name) VALUES ($1, $2) RETURNING id`,
			a[0], a[1],
		); err != nil {
			return errors.Wrap(err, "seeding admins")
		}
	}

	plans := []booking.PaymentPlan{
		{Price: 49.99, Interval: booking.IntervalMonth, Duration: 3, JoiningFee: 10},
		{Price: 120, Interval: booking.IntervalQuarter, Duration: 4, JoiningFee: 0},
	}
	for i, p := range plans {
		if err := dbx.Get(
			&planIDs[i],
			`INSERT INTO payment_plans (price, interval, duration, joining_fee) VALUES ($1, $2, $3, $4) RETURNING id`,
			p.Price, p.Interval, p.Duration, p.JoiningFee,
		); err != nil {
			return errors.Wrap(err, "seeding payment plans")
		}
	}

	channels := []string{"Facebook", "referral"}
	for i, ch := range channels {
		if err := dbx.Get(&leadIDs[i], `INSERT INTO leads (channel) VALUES ($1) RETURNING id`, ch); err != nil {
			return errors.Wrap(err, "seeding leads")
		}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	type seedBooking struct {
		bookingType string
		status      string
		createdAt   time.Time
		trialDate   null.Time
		converted   string
		planID      interface{}
		venueID     interface{}
		leadID      interface{}
		adminID     interface{}
		students    []booking.Student
	}

	rows := []seedBooking{
		{
			bookingType: booking.TypePaid,
			status:      booking.StatusActive,
			createdAt:   monthStart.AddDate(0, -2, 9),
			converted:   "1", // legacy representation, normalized on read
			planID:      planIDs[0],
			venueID:     venueIDs[0],
			leadID:      leadIDs[0],
			adminID:     adminIDs[0],
			students: []booking.Student{
				{FirstName: "Amy", LastName: "Jones", DateOfBirth: now.AddDate(-9, 0, 0), Gender: "female", Attendance: booking.AttendanceAttended},
				{FirstName: "Ben", LastName: "Jones", DateOfBirth: now.AddDate(-12, 0, 0), Gender: "male", Attendance: booking.AttendanceNotAttended},
			},
		},
		{
			bookingType: booking.TypeFree,
			status:      booking.StatusActive,
			createdAt:   monthStart.AddDate(0, -1, 4),
			trialDate:   null.TimeFrom(monthStart.AddDate(0, -1, 11)),
			converted:   "false",
			venueID:     venueIDs[1],
			leadID:      leadIDs[1],
			adminID:     adminIDs[1],
			students: []booking.Student{
				{FirstName: "Cara", LastName: "Lee", DateOfBirth: now.AddDate(-20, 0, 0), Gender: "female", Attendance: booking.AttendanceAttended},
			},
		},
		{
			bookingType: booking.TypePaid,
			status:      booking.StatusCancelled,
			createdAt:   monthStart.AddDate(0, 0, 2),
			converted:   "true",
			planID:      planIDs[1],
			venueID:     venueIDs[0],
			adminID:     adminIDs[0],
			students: []booking.Student{
				{FirstName: "Dan", LastName: "Cole", DateOfBirth: now.AddDate(-16, 0, 0), Gender: "other", Attendance: booking.AttendanceAttended},
			},
		},
	}

	for _, r := range rows {
		var bookingID int
		if err := dbx.Get(
			&bookingID,
			`INSERT INTO bookings
				(booking_type, status, created_at, trial_date, converted_to_member,
				 payment_plan_id, venue_id, lead_id, admin_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			r.bookingType, r.status, r.createdAt, r.trialDate, r.converted,
			r.planID, r.venueID, r.leadID, r.adminID,
		); err != nil {
			return errors.Wrap(err, "seeding bookings")
		}

		for _, s := range r.students {
			if _, err := dbx.Exec(
				`INSERT INTO students (booking_id, first_name, last_name, date_of_birth, gender, attendance, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				bookingID, s.FirstName, s.LastName, s.DateOfBirth, s.Gender, s.Attendance, r.createdAt,
			); err != nil {
				return errors.Wrap(err, "seeding students")
			}
		}
	}

	logger.Printf("seeded %d bookings across %d venues", len(rows), len(venues))
	return nil
}
