package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

func aggregateSingle(t *testing.T, bookings []booking.Booking) *BucketReport {
	t.Helper()
	buckets := Bucketize(bookings)
	if len(buckets) != 1 {
		t.Fatalf("expected a single bucket, got %d", len(buckets))
	}
	return aggregateBucket(buckets[0], bookings, booking.QueryFilter{}, testNow)
}

// One paid booking priced 100 plus one non-paid booking priced 50.
func TestAggregate_totalSales(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withType(booking.TypePaid), withPlan(1, 100, booking.IntervalMonth, 6)),
		newBooking(2, tdate(2024, time.March, 2), withPlan(2, 50, booking.IntervalMonth, 6)),
	}
	br := aggregateSingle(t, bookings)

	want := TotalSales{
		TotalRevenue:       150,
		TotalPaidRevenue:   100,
		TotalUnpaidRevenue: 50,
		BookingCount:       2,
		PaidBookingCount:   1,
		UnpaidBookingCount: 1,
	}
	assert.Equal(t, want, br.TotalSales)
}

func TestAggregate_paidPlusUnpaidEqualsTotal(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withType(booking.TypePaid), withPlan(1, 100.5, booking.IntervalMonth, 2)),
		newBooking(2, tdate(2024, time.March, 2), withPlan(2, 49.25, booking.IntervalMonth, 2)),
		newBooking(3, tdate(2024, time.March, 3)), // no plan: contributes 0
	}
	br := aggregateSingle(t, bookings)

	ts := br.TotalSales
	if ts.TotalPaidRevenue+ts.TotalUnpaidRevenue != ts.TotalRevenue {
		t.Errorf("paid %v + unpaid %v != total %v", ts.TotalPaidRevenue, ts.TotalUnpaidRevenue, ts.TotalRevenue)
	}
}

// A booking satisfying both the trial-date and free-type conditions counts once.
func TestAggregate_freeTrialCountedOnce(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withType(booking.TypeFree), withTrialDate(tdate(2024, time.March, 5))),
	}
	br := aggregateSingle(t, bookings)
	if br.FreeTrialsCount != 1 {
		t.Errorf("FreeTrialsCount = %d; want 1", br.FreeTrialsCount)
	}
}

// A booking with one attended and one not-attended student contributes exactly 1.
func TestAggregate_attendedPerStudent(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1),
			withStudent("A", "One", "female", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.March, 1)),
			withStudent("B", "Two", "male", booking.AttendanceNotAttended, tdate(2013, time.January, 1), tdate(2024, time.March, 1))),
	}
	br := aggregateSingle(t, bookings)
	if br.AttendedCount != 1 {
		t.Errorf("AttendedCount = %d; want 1", br.AttendedCount)
	}
}

func TestAggregate_rates(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1),
			withStudent("A", "One", "female", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.March, 1))),
		newBooking(2, tdate(2024, time.March, 2), withConverted()),
		newBooking(3, tdate(2024, time.March, 3)),
	}
	br := aggregateSingle(t, bookings)

	if br.FreeTrialsCount != 3 {
		t.Fatalf("FreeTrialsCount = %d; want 3", br.FreeTrialsCount)
	}
	assert.Equal(t, 33.33, br.AttendanceRate) // round(1/3*100, 2)
	assert.Equal(t, 33.33, br.ConversionRate)
}

// Rates are 0, not NaN, when no free trials exist.
func TestAggregate_zeroRatesWithoutTrials(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withType(booking.TypePaid)),
	}
	br := aggregateSingle(t, bookings)

	if br.FreeTrialsCount != 0 {
		t.Fatalf("FreeTrialsCount = %d; want 0", br.FreeTrialsCount)
	}
	if br.AttendanceRate != 0 || br.ConversionRate != 0 {
		t.Errorf("rates = %v/%v; want 0/0", br.AttendanceRate, br.ConversionRate)
	}
}

func TestAggregate_rebookCount(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withStatus(booking.StatusRebooked)),
		newBooking(2, tdate(2024, time.March, 2), withStatus(booking.StatusCancelled)),
	}
	br := aggregateSingle(t, bookings)
	if br.RebookCount != 1 {
		t.Errorf("RebookCount = %d; want 1", br.RebookCount)
	}
}

func TestAggregate_agentSummary(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withAdmin(1, "Grace", "Hopper")),
		newBooking(2, tdate(2024, time.March, 2), withAdmin(1, "Grace", "Hopper"), withConverted()),
		newBooking(3, tdate(2024, time.March, 3), withAdmin(2, "Alan", "Kay")),
	}
	br := aggregateSingle(t, bookings)

	if len(br.AgentSummary) != 2 {
		t.Fatalf("len(AgentSummary) = %d; want 2", len(br.AgentSummary))
	}
	// sorted descending by freeTrialsCount
	top := br.AgentSummary[0]
	if top.AgentID != 1 || top.FreeTrialsCount != 2 {
		t.Errorf("top agent = %+v; want agent 1 with 2 free trials", top)
	}
	if top.TrialToMemberCount != 1 {
		t.Errorf("top agent TrialToMemberCount = %d; want 1", top.TrialToMemberCount)
	}
	assert.Equal(t, 50.0, top.ConversionRate)
	if br.AgentSummary[1].AgentName != "Alan Kay" {
		t.Errorf("second agent = %q; want %q", br.AgentSummary[1].AgentName, "Alan Kay")
	}
}

func TestAggregate_enrolledStudents(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withVenue(7, "North Hall"),
			withStudent("A", "One", "Female", booking.AttendanceAttended, testNow.AddDate(-10, 0, -1), tdate(2024, time.March, 1)),
			withStudent("B", "Two", "", booking.AttendanceNotAttended, testNow.AddDate(-10, 0, -1), tdate(2024, time.March, 1))),
		newBooking(2, tdate(2024, time.March, 2), withClassVenue(3, 7, "North Hall"),
			withStudent("C", "Three", "male", booking.AttendanceAttended, testNow.AddDate(-25, 0, -1), tdate(2024, time.March, 2))),
	}
	br := aggregateSingle(t, bookings)

	assert.Equal(t, map[int]int{10: 2, 25: 1}, br.EnrolledStudents.ByAge)
	assert.Equal(t, map[string]int{"female": 1, "other": 1, "male": 1}, br.EnrolledStudents.ByGender)

	// both venue paths resolve to the same venue
	if len(br.EnrolledStudents.ByVenue) != 1 {
		t.Fatalf("len(ByVenue) = %d; want 1", len(br.EnrolledStudents.ByVenue))
	}
	v := br.EnrolledStudents.ByVenue[0]
	if v.VenueID != 7 || v.FreeTrialsCount != 2 || v.StudentsCount != 3 {
		t.Errorf("ByVenue[0] = %+v; want venue 7 with 2 bookings, 3 students", v)
	}
}

func TestAggregate_paymentPlansTrend(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withPlan(5, 80, booking.IntervalMonth, 6),
			withStudent("A", "One", "female", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.March, 1)),
			withStudent("B", "Two", "male", booking.AttendanceAttended, tdate(2013, time.January, 1), tdate(2024, time.March, 1))),
		newBooking(2, tdate(2024, time.March, 2), withPlan(5, 80, booking.IntervalMonth, 6),
			withStudent("C", "Three", "male", booking.AttendanceAttended, tdate(2014, time.January, 1), tdate(2024, time.March, 2))),
	}
	br := aggregateSingle(t, bookings)

	if len(br.PaymentPlansTrend) != 1 {
		t.Fatalf("len(PaymentPlansTrend) = %d; want 1", len(br.PaymentPlansTrend))
	}
	ps := br.PaymentPlansTrend[0]
	if ps.PlanID != 5 || ps.StudentsCount != 3 {
		t.Errorf("PaymentPlansTrend[0] = %+v; want plan 5 with 3 students", ps)
	}
}

func TestAggregate_marketingChannels(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withLead("Facebook")),
		newBooking(2, tdate(2024, time.March, 2), withLead("referral")),
		newBooking(3, tdate(2024, time.March, 3), withLead("facebook")),
		newBooking(4, tdate(2024, time.March, 4)), // no lead: not tallied
	}
	br := aggregateSingle(t, bookings)

	assert.Equal(t, map[string]int{"facebook": 2, "referral": 1}, br.MarketingChannelPerformance)
}

func TestAggregate_facebookPerformance(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withLead("facebook"), withStatus(booking.StatusActive),
			withStudent("A", "One", "female", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.March, 1))),
		newBooking(2, tdate(2024, time.March, 2), withLead("facebook"), withType(booking.TypePaid), withStatus(booking.StatusCancelled)),
		newBooking(3, tdate(2024, time.March, 3), withLead("referral"), withStatus(booking.StatusActive)),
	}
	br := aggregateSingle(t, bookings)

	fb := br.FacebookPerformance
	if fb.LeadsGenerated != 2 {
		t.Errorf("LeadsGenerated = %d; want 2", fb.LeadsGenerated)
	}
	if fb.TrialsBooked != 1 {
		t.Errorf("TrialsBooked = %d; want 1", fb.TrialsBooked)
	}
	if fb.TrialsAttended != 1 {
		t.Errorf("TrialsAttended = %d; want 1", fb.TrialsAttended)
	}
	if fb.MembershipsSold != 1 {
		t.Errorf("MembershipsSold = %d; want 1", fb.MembershipsSold)
	}
	assert.Equal(t, 50.0, fb.ConversionRate)
}

func TestAggregate_durationBands(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withPlan(1, 10, booking.IntervalMonth, 1)),
		newBooking(2, tdate(2024, time.March, 2), withPlan(2, 10, booking.IntervalMonth, 2)),
		newBooking(3, tdate(2024, time.March, 3), withPlan(3, 10, booking.IntervalQuarter, 1)),  // 3 months
		newBooking(4, tdate(2024, time.March, 4), withPlan(4, 10, booking.IntervalYear, 2)),     // 24 months
		newBooking(5, tdate(2024, time.March, 5), withPlan(5, 10, booking.IntervalYear, 3)),     // 36: beyond table
		newBooking(6, tdate(2024, time.March, 6)),                                               // no plan
	}
	br := aggregateSingle(t, bookings)

	want := map[string]int{
		"1-2 Months":   2,
		"3-4 Months":   1,
		"23-24 Months": 1,
	}
	assert.Equal(t, want, br.DurationOfMembership)
}

// newStudents is keyed to the real-world current month, not the bucket's month.
func TestAggregate_newStudentsUseCurrentMonth(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1),
			withStudent("Old", "Signup", "male", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.March, 1)),
			withStudent("New", "Signup", "male", booking.AttendanceAttended, tdate(2012, time.January, 1), testNow.AddDate(0, 0, -1))),
	}
	br := aggregateSingle(t, bookings)

	if len(br.NewStudents) != 1 {
		t.Fatalf("len(NewStudents) = %d; want 1", len(br.NewStudents))
	}
	if br.NewStudents[0].FirstName != "New" {
		t.Errorf("NewStudents[0] = %+v; want the June signup", br.NewStudents[0])
	}
}

// The filtered subset rides alongside the raw totals and never replaces them.
func TestAggregate_filteredBookingsCarriedAlongside(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 1), withVenue(7, "North Hall")),
		newBooking(2, tdate(2024, time.March, 2), withVenue(9, "South Hall")),
	}
	buckets := Bucketize(bookings)
	br := aggregateBucket(buckets[0], bookings, booking.QueryFilter{VenueID: 7}, testNow)

	if br.TotalSales.BookingCount != 2 {
		t.Errorf("BookingCount = %d; want 2 (unfiltered totals)", br.TotalSales.BookingCount)
	}
	if len(br.FilteredBookings) != 1 || br.FilteredBookings[0].ID != 1 {
		t.Errorf("FilteredBookings = %v; want booking 1 only", ids(br.FilteredBookings))
	}
}
