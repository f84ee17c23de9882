package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

type bookingRepository struct {
	db *sqlx.DB
}

var _ booking.Repository = (*bookingRepository)(nil) // interface compliance check

func NewBookingRepository(db *sql.DB) *bookingRepository {
	return &bookingRepository{db: sqlx.NewDb(db, "postgres")}
}

// bookingRow flattens one booking with its many-to-one associations.
type bookingRow struct {
	ID                int         `db:"id"`
	Type              string      `db:"booking_type"`
	Status            string      `db:"status"`
	CreatedAt         null.Time   `db:"created_at"`
	TrialDate         null.Time   `db:"trial_date"`
	StartDate         null.Time   `db:"start_date"`
	ConvertedToMember null.String `db:"converted_to_member"`

	PlanID       null.Int     `db:"plan_id"`
	PlanPrice    null.Float64 `db:"plan_price"`
	PlanInterval null.String  `db:"plan_interval"`
	PlanDuration null.Int     `db:"plan_duration"`
	PlanFee      null.Float64 `db:"plan_fee"`

	VenueID   null.Int    `db:"venue_id"`
	VenueName null.String `db:"venue_name"`

	ClassID        null.Int    `db:"class_id"`
	ClassName      null.String `db:"class_name"`
	ClassVenueID   null.Int    `db:"class_venue_id"`
	ClassVenueName null.String `db:"class_venue_name"`

	LeadID      null.Int    `db:"lead_id"`
	LeadChannel null.String `db:"lead_channel"`

	AdminID        null.Int    `db:"admin_id"`
	AdminFirstName null.String `db:"admin_first_name"`
	AdminLastName  null.String `db:"admin_last_name"`
}

type studentRow struct {
	ID          int         `db:"id"`
	BookingID   int         `db:"booking_id"`
	FirstName   string      `db:"first_name"`
	LastName    string      `db:"last_name"`
	DateOfBirth null.Time   `db:"date_of_birth"`
	Gender      string      `db:"gender"`
	Attendance  string      `db:"attendance"`
	CreatedAt   null.Time   `db:"created_at"`
}

const reportBookingsQuery = `
SELECT b.id,
       b.booking_type,
       b.status,
       b.created_at,
       b.trial_date,
       b.start_date,
       b.converted_to_member,
       p.id   AS plan_id,
       p.price AS plan_price,
       p.interval AS plan_interval,
       p.duration AS plan_duration,
       p.joining_fee AS plan_fee,
       v.id   AS venue_id,
       v.name AS venue_name,
       cs.id  AS class_id,
       cs.name AS class_name,
       cv.id  AS class_venue_id,
       cv.name AS class_venue_name,
       l.id   AS lead_id,
       l.channel AS lead_channel,
       a.id   AS admin_id,
       a.first_name AS admin_first_name,
       a.last_name  AS admin_last_name
  FROM bookings b
  LEFT JOIN payment_plans p ON p.id = b.payment_plan_id
  LEFT JOIN venues v ON v.id = b.venue_id
  LEFT JOIN class_schedules cs ON cs.id = b.class_schedule_id
  LEFT JOIN venues cv ON cv.id = cs.venue_id
  LEFT JOIN leads l ON l.id = b.lead_id
  LEFT JOIN admins a ON a.id = b.admin_id
 WHERE b.trial_date IS NOT NULL OR b.booking_type IN ('free', 'paid')
 ORDER BY b.created_at, b.id`

const reportStudentsQuery = `
SELECT id, booking_id, first_name, last_name, date_of_birth, gender, attendance, created_at
  FROM students
 WHERE booking_id = ANY($1)
 ORDER BY id`

func (repo *bookingRepository) QueryReportBookings(ctx context.Context) ([]booking.Booking, error) {
	var rows []bookingRow
	if err := repo.db.SelectContext(ctx, &rows, reportBookingsQuery); err != nil {
		return nil, errors.Wrap(err, "selecting report bookings")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	bookings := make([]booking.Booking, len(rows))
	index := make(map[int]*booking.Booking, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		bookings[i] = row.toBooking()
		index[bookings[i].ID] = &bookings[i]
		ids[i] = int64(row.ID)
	}

	var students []studentRow
	if err := repo.db.SelectContext(ctx, &students, reportStudentsQuery, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "selecting report students")
	}
	for _, s := range students {
		b, ok := index[s.BookingID]
		if !ok {
			continue
		}
		b.Students = append(b.Students, booking.Student{
			ID:          s.ID,
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			DateOfBirth: s.DateOfBirth.Time,
			Gender:      s.Gender,
			Attendance:  s.Attendance,
			CreatedAt:   s.CreatedAt.Time,
		})
	}
	return bookings, nil
}

func (row bookingRow) toBooking() booking.Booking {
	b := booking.Booking{
		ID:        row.ID,
		Type:      row.Type,
		Status:    row.Status,
		CreatedAt: row.CreatedAt.Time,
		TrialDate: row.TrialDate,
		StartDate: row.StartDate,
	}
	if row.ConvertedToMember.Valid {
		b.ConvertedToMember = booking.NormalizeMemberFlag(row.ConvertedToMember.String)
	}
	if row.PlanID.Valid {
		b.PaymentPlan = &booking.PaymentPlan{
			ID:         row.PlanID.Int,
			Price:      row.PlanPrice.Float64,
			Interval:   row.PlanInterval.String,
			Duration:   row.PlanDuration.Int,
			JoiningFee: row.PlanFee.Float64,
		}
	}
	if row.VenueID.Valid {
		b.Venue = &booking.Venue{ID: row.VenueID.Int, Name: row.VenueName.String}
	}
	if row.ClassID.Valid {
		cs := &booking.ClassSchedule{ID: row.ClassID.Int, Name: row.ClassName.String}
		if row.ClassVenueID.Valid {
			cs.Venue = &booking.Venue{ID: row.ClassVenueID.Int, Name: row.ClassVenueName.String}
		}
		b.ClassSchedule = cs
	}
	if row.LeadID.Valid {
		b.Lead = &booking.Lead{ID: row.LeadID.Int, Channel: row.LeadChannel.String}
	}
	if row.AdminID.Valid {
		b.Admin = &booking.Admin{
			ID:        row.AdminID.Int,
			FirstName: row.AdminFirstName.String,
			LastName:  row.AdminLastName.String,
		}
	}
	return b
}
