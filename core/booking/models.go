package booking

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/akshaywebstep/synco-sub001/core"
)

// Booking types
const (
	TypePaid = "paid"
	TypeFree = "free"
)

// Booking statuses
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusRebooked  = "rebooked"
)

// Payment plan billing intervals
const (
	IntervalMonth   = "month"
	IntervalQuarter = "quarter"
	IntervalYear    = "year"
)

// Student attendance tags
const (
	AttendanceAttended    = "attended"
	AttendanceNotAttended = "not attended"
)

// QueryFilter age bands
const (
	AgeUnder18 = "under18"
	Age18To25  = "18-25"
	AgeAll     = "allAges"
)

// QueryFilter periods, evaluated against the moment the report is generated
const (
	PeriodThisMonth   = "thisMonth"
	PeriodThisQuarter = "thisQuarter"
	PeriodThisYear    = "thisYear"
)

type Venue struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ClassSchedule struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Venue *Venue `json:"venue,omitempty"`
}

type PaymentPlan struct {
	ID         int     `json:"id"`
	Price      float64 `json:"price"`
	Interval   string  `json:"interval"` // month | quarter | year
	Duration   int     `json:"duration"` // count of intervals
	JoiningFee float64 `json:"joiningFee"`
}

type Lead struct {
	ID      int    `json:"id"`
	Channel string `json:"channel"` // acquisition channel: facebook, referral, website, ...
}

type Admin struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (a Admin) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type Student struct {
	ID          int       `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      string    `json:"gender"`
	Attendance  string    `json:"attendance"` // attended | not attended
	CreatedAt   time.Time `json:"createdAt"`  // UTC
}

func (s Student) Attended() bool {
	return strings.EqualFold(s.Attendance, AttendanceAttended)
}

// Age returns the student's age in whole years at the given moment.
func (s Student) Age(now time.Time) int {
	if s.DateOfBirth.IsZero() {
		return 0
	}
	years := now.Year() - s.DateOfBirth.Year()
	if s.DateOfBirth.AddDate(years, 0, 0).After(now) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// Booking is one report input record, eagerly loaded with its associations.
// Records are immutable for the duration of one report computation.
type Booking struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`   // paid | free | ...
	Status    string    `json:"status"` // active | cancelled | rebooked | ...
	CreatedAt time.Time `json:"createdAt"` // UTC; determines bucket placement
	TrialDate null.Time `json:"trialDate,omitempty"`
	StartDate null.Time `json:"startDate,omitempty"`

	// ConvertedToMember is normalized at ingestion; see NormalizeMemberFlag.
	ConvertedToMember bool `json:"convertedToMember"`

	PaymentPlan   *PaymentPlan   `json:"paymentPlan,omitempty"`
	Venue         *Venue         `json:"venue,omitempty"`
	ClassSchedule *ClassSchedule `json:"classSchedule,omitempty"`
	Lead          *Lead          `json:"lead,omitempty"`
	Admin         *Admin         `json:"admin,omitempty"`
	Students      []Student      `json:"students,omitempty"`
}

func (b *Booking) IsPaid() bool {
	return b.Type == TypePaid
}

// IsFreeTrial reports whether the booking counts as a free trial:
// it has a trial date set, or its type tag is "free". A booking satisfying
// both conditions still counts once.
func (b *Booking) IsFreeTrial() bool {
	return b.TrialDate.Valid || b.Type == TypeFree
}

// PlanPrice returns the payment plan price, or 0 when no plan is attached.
func (b *Booking) PlanPrice() float64 {
	if b.PaymentPlan == nil {
		return 0
	}
	return b.PaymentPlan.Price
}

// LeadChannel returns the lower-cased acquisition channel, or "" without a lead.
func (b *Booking) LeadChannel() string {
	if b.Lead == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(b.Lead.Channel))
}

// AttendedStudents counts the booking's students tagged "attended".
func (b *Booking) AttendedStudents() int {
	var n int
	for _, s := range b.Students {
		if s.Attended() {
			n++
		}
	}
	return n
}

// ResolveVenue returns the booking's canonical venue: the direct reference when
// set, otherwise the class schedule's venue. The two paths are not always
// consistent in the source data; every consumer must go through this one rule.
func (b *Booking) ResolveVenue() *Venue {
	if b.Venue != nil {
		return b.Venue
	}
	if b.ClassSchedule != nil {
		return b.ClassSchedule.Venue
	}
	return nil
}

// NormalizeMemberFlag coerces the legacy membership-conversion flag, observed
// historically as a boolean, the number 1 or the string "1". Coercion happens
// once at ingestion; nothing downstream re-checks representations.
func NormalizeMemberFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		return t == 1
	case string:
		return t == "1" || strings.EqualFold(t, "true")
	}
	return false
}

// QueryFilter is the report drill-down surface. Every field is optional and,
// when absent, imposes no constraint; supplied fields combine with AND.
type QueryFilter struct {
	StudentName     string `query:"studentName" json:"studentName"`
	VenueName       string `query:"venueName" json:"venueName"`
	VenueID         int    `query:"venueId" json:"venueId"`
	ClassScheduleID int    `query:"classScheduleId" json:"classScheduleId"`
	PlanInterval    string `query:"paymentPlanInterval" json:"paymentPlanInterval" validate:"omitempty,planinterval,required_with=PlanDuration"`
	PlanDuration    int    `query:"paymentPlanDuration" json:"paymentPlanDuration" validate:"required_with=PlanInterval"`
	AdminName       string `query:"adminName" json:"adminName"`
	Age             string `query:"age" json:"age" validate:"omitempty,ageband"`
	Period          string `query:"period" json:"period" validate:"omitempty,reportperiod"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentName == "" && qf.VenueName == "" && qf.VenueID == 0 &&
		qf.ClassScheduleID == 0 && qf.PlanInterval == "" && qf.PlanDuration == 0 &&
		qf.AdminName == "" && (qf.Age == "" || qf.Age == AgeAll) && qf.Period == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentName = core.CleanString(qf.StudentName)
	qf.VenueName = core.CleanString(qf.VenueName)
	qf.AdminName = core.CleanString(qf.AdminName)
	qf.PlanInterval = core.CleanString(qf.PlanInterval, true /* lower */)
	qf.Age = core.CleanString(qf.Age)
	qf.Period = core.CleanString(qf.Period)
}
