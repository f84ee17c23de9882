package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// Empty booking list: empty bucket map, all-zero overall totals, empty venues.
func TestBuild_emptyInput(t *testing.T) {
	rep, err := Build(nil, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(rep.Years) != 0 {
		t.Errorf("len(Years) = %d; want 0", len(rep.Years))
	}
	assert.Equal(t, YearTotals{}, rep.OverallTrends)
	if len(rep.AllVenues) != 0 {
		t.Errorf("AllVenues = %v; want empty", rep.AllVenues)
	}
	if len(rep.OverallMarketingPerformance) != 0 {
		t.Errorf("OverallMarketingPerformance = %v; want empty", rep.OverallMarketingPerformance)
	}
}

// January and March bookings still produce a zero-count February bucket.
func TestBuild_emitsEmptyMonths(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.January, 10)),
		newBooking(2, tdate(2024, time.March, 20)),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	yr, ok := rep.Years[2024]
	if !ok {
		t.Fatal("missing 2024 year report")
	}
	feb, ok := yr.Months["02-2024"]
	if !ok {
		t.Fatal("missing 02-2024 bucket")
	}
	if feb.TotalSales.BookingCount != 0 || feb.FreeTrialsCount != 0 {
		t.Errorf("February bucket not empty: %+v", feb.TotalSales)
	}
}

func TestBuild_monthTrendChain(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.January, 5)),
		newBooking(2, tdate(2024, time.February, 5)),
		newBooking(3, tdate(2024, time.February, 6)),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	months := rep.Years[2024].Months

	jan := months["01-2024"]
	if jan.Trend == nil || jan.Trend.Message != "No previous month" {
		t.Errorf("January trend = %+v; want no-previous", jan.Trend)
	}

	feb := months["02-2024"]
	if feb.Trend == nil {
		t.Fatal("February trend missing")
	}
	if feb.Trend.Percent != 100 || feb.Trend.Color != "green" {
		t.Errorf("February trend = %+v; want +100%% green", feb.Trend)
	}
}

// An agent absent from the previous month compares against a zero snapshot,
// not a missing one, so the previous-zero branch fires.
func TestBuild_agentTrendDefaultsToZeroSnapshot(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.January, 5), withAdmin(1, "Grace", "Hopper")),
		newBooking(2, tdate(2024, time.February, 5), withAdmin(2, "Alan", "Kay")),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	feb := rep.Years[2024].Months["02-2024"]
	if len(feb.AgentSummary) != 1 {
		t.Fatalf("len(AgentSummary) = %d; want 1", len(feb.AgentSummary))
	}
	trend := feb.AgentSummary[0].Trend
	if trend == nil {
		t.Fatal("agent trend missing")
	}
	if trend.Message != "Increased by 100%" {
		t.Errorf("agent trend message = %q; want %q", trend.Message, "Increased by 100%")
	}
	if trend.PreviousMonthStats == nil {
		t.Error("agent trend previous snapshot missing; want all-zero snapshot")
	}
}

// Year rates come from the year's summed counts, not the months' rates.
func TestBuild_yearRatesRederived(t *testing.T) {
	attended := withStudent("A", "One", "female", booking.AttendanceAttended, tdate(2012, time.January, 1), tdate(2024, time.January, 1))
	bookings := []booking.Booking{
		// January: 1 trial, 1 attended -> 100%
		newBooking(1, tdate(2024, time.January, 5), attended),
		// February: 2 trials, 0 attended -> 0%
		newBooking(2, tdate(2024, time.February, 5)),
		newBooking(3, tdate(2024, time.February, 6)),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	totals := rep.Years[2024].Totals
	if totals.FreeTrialsCount != 3 || totals.AttendedCount != 1 {
		t.Fatalf("totals = %d trials, %d attended; want 3, 1", totals.FreeTrialsCount, totals.AttendedCount)
	}
	// 1/3 -> 33.33, not the month average of (100+0)/2 = 50
	assert.Equal(t, 33.33, totals.AttendanceRate)
}

func TestBuild_yearTrendAgainstPriorYear(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2023, time.December, 5)),
		newBooking(2, tdate(2024, time.January, 5)),
		newBooking(3, tdate(2024, time.January, 6)),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	y2023 := rep.Years[2023]
	if y2023.Trend == nil || y2023.Trend.Message != "No previous month" {
		t.Errorf("2023 trend = %+v; want no-previous", y2023.Trend)
	}

	y2024 := rep.Years[2024]
	if y2024.Trend == nil {
		t.Fatal("2024 trend missing")
	}
	if y2024.Trend.Percent != 100 || y2024.Trend.Color != "green" {
		t.Errorf("2024 trend = %+v; want +100%% green", y2024.Trend)
	}
	if y2024.Trend.CurrentYearStats == nil || y2024.Trend.PreviousYearStats == nil {
		t.Error("year trend snapshots missing")
	}
}

// A facebook booking with status "active" increments membershipsSold in its
// month and in its year aggregate.
func TestBuild_facebookMembershipsSoldRollsUp(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2024, time.March, 5), withLead("facebook"), withStatus(booking.StatusActive)),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	month := rep.Years[2024].Months["03-2024"]
	if month.FacebookPerformance.MembershipsSold != 1 {
		t.Errorf("month MembershipsSold = %d; want 1", month.FacebookPerformance.MembershipsSold)
	}
	year := rep.Years[2024].Totals.FacebookPerformance
	if year.MembershipsSold != 1 {
		t.Errorf("year MembershipsSold = %d; want 1", year.MembershipsSold)
	}
}

func TestBuild_overallRollups(t *testing.T) {
	bookings := []booking.Booking{
		newBooking(1, tdate(2023, time.December, 5), withLead("referral"), withType(booking.TypePaid), withPlan(1, 100, booking.IntervalMonth, 6)),
		newBooking(2, tdate(2024, time.January, 5), withLead("facebook")),
	}
	rep, err := Build(bookings, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if rep.OverallTrends.TotalSales.BookingCount != 2 {
		t.Errorf("overall BookingCount = %d; want 2", rep.OverallTrends.TotalSales.BookingCount)
	}
	if rep.OverallTrends.TotalSales.TotalRevenue != 100 {
		t.Errorf("overall TotalRevenue = %v; want 100", rep.OverallTrends.TotalSales.TotalRevenue)
	}
	assert.Equal(t, map[string]int{"referral": 1, "facebook": 1}, rep.OverallMarketingPerformance)
}

// Venues are collected dataset-wide regardless of filter, deduplicated, and
// scoped to a single Build call.
func TestBuild_allVenuesScopedPerCall(t *testing.T) {
	first := []booking.Booking{
		newBooking(1, tdate(2024, time.January, 5), withVenue(7, "North Hall")),
		newBooking(2, tdate(2024, time.February, 5), withClassVenue(1, 7, "North Hall")),
		newBooking(3, tdate(2024, time.February, 6), withVenue(9, "South Hall")),
	}
	rep1, err := Build(first, booking.QueryFilter{VenueID: 9}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	assert.Equal(t, []booking.Venue{{ID: 7, Name: "North Hall"}, {ID: 9, Name: "South Hall"}}, rep1.AllVenues)

	// a second invocation must not see the first call's venues
	second := []booking.Booking{
		newBooking(4, tdate(2024, time.March, 5), withVenue(11, "East Hall")),
	}
	rep2, err := Build(second, booking.QueryFilter{}, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	assert.Equal(t, []booking.Venue{{ID: 11, Name: "East Hall"}}, rep2.AllVenues)
}
