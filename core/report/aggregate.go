package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akshaywebstep/synco-sub001/core"
	"github.com/akshaywebstep/synco-sub001/core/booking"
)

const channelFacebook = "facebook"

// TotalSales is the revenue block of one bucket.
// Invariant: TotalPaidRevenue + TotalUnpaidRevenue == TotalRevenue.
type TotalSales struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalPaidRevenue   float64 `json:"totalPaidRevenue"`
	TotalUnpaidRevenue float64 `json:"totalUnpaidRevenue"`
	BookingCount       int     `json:"bookingCount"`
	PaidBookingCount   int     `json:"paidBookingCount"`
	UnpaidBookingCount int     `json:"unpaidBookingCount"`
}

// AgentStats carries one booking agent's share of a bucket, computed with the
// same formulas as the bucket totals restricted to that agent's bookings.
type AgentStats struct {
	AgentID            int     `json:"agentId"`
	AgentName          string  `json:"agentName"`
	FreeTrialsCount    int     `json:"freeTrialsCount"`
	AttendedCount      int     `json:"attendedCount"`
	AttendanceRate     float64 `json:"attendanceRate"`
	TrialToMemberCount int     `json:"trialToMemberCount"`
	ConversionRate     float64 `json:"conversionRate"`
	RebookCount        int     `json:"rebookCount"`
	Trend              *Trend  `json:"trend,omitempty"`
}

// snapshot is the agent's stats without the trend, safe to attach to a Trend.
func (a AgentStats) snapshot() AgentStats {
	a.Trend = nil
	return a
}

type VenueStats struct {
	VenueID         int    `json:"venueId"`
	VenueName       string `json:"venueName"`
	FreeTrialsCount int    `json:"freeTrialsCount"` // bookings touching this venue
	StudentsCount   int    `json:"studentsCount"`
}

type EnrolledStudents struct {
	ByAge    map[int]int    `json:"byAge"`
	ByGender map[string]int `json:"byGender"`
	ByVenue  []VenueStats   `json:"byVenue"`
}

type PlanStats struct {
	PlanID        int     `json:"planId"`
	Price         float64 `json:"price"`
	Interval      string  `json:"interval"`
	Duration      int     `json:"duration"`
	StudentsCount int     `json:"studentsCount"`
}

type FacebookPerformance struct {
	LeadsGenerated  int     `json:"leadsGenerated"`
	TrialsBooked    int     `json:"trialsBooked"`
	TrialsAttended  int     `json:"trialsAttended"`
	MembershipsSold int     `json:"membershipsSold"`
	ConversionRate  float64 `json:"conversionRate"` // membershipsSold / leadsGenerated
}

type NewStudent struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrendSnapshot is the numeric field set trends compare at either grain.
type TrendSnapshot struct {
	FreeTrialsCount    int     `json:"freeTrialsCount"`
	AttendedCount      int     `json:"attendedCount"`
	AttendanceRate     float64 `json:"attendanceRate"`
	TrialToMemberCount int     `json:"trialToMemberCount"`
	ConversionRate     float64 `json:"conversionRate"`
	RebookCount        int     `json:"rebookCount"`
	TotalRevenue       float64 `json:"totalRevenue"`
}

// BucketReport is the full aggregation of one calendar month. All totals are
// computed over every booking in the bucket; FilteredBookings carries the
// drill-down subset alongside and never replaces the raw totals.
type BucketReport struct {
	Key   string `json:"-"` // MM-YYYY
	Year  int    `json:"year"`
	Month int    `json:"month"`

	TotalSales TotalSales `json:"totalSales"`

	FreeTrialsCount    int     `json:"freeTrialsCount"`
	AttendedCount      int     `json:"attendedCount"`
	AttendanceRate     float64 `json:"attendanceRate"`
	TrialToMemberCount int     `json:"trialToMemberCount"`
	ConversionRate     float64 `json:"conversionRate"`
	RebookCount        int     `json:"rebookCount"`

	AgentSummary                []AgentStats        `json:"agentSummary"`
	EnrolledStudents            EnrolledStudents    `json:"enrolledStudents"`
	PaymentPlansTrend           []PlanStats         `json:"paymentPlansTrend"`
	MarketingChannelPerformance map[string]int      `json:"marketingChannelPerformance"`
	FacebookPerformance         FacebookPerformance `json:"facebookPerformance"`
	DurationOfMembership        map[string]int      `json:"durationOfMembership"`
	NewStudents                 []NewStudent        `json:"newStudents"`

	FilteredBookings []booking.Booking `json:"filteredBookings"`

	Trend         *Trend `json:"trend,omitempty"`
	SalesTrend    *Trend `json:"salesTrend,omitempty"`
	FacebookTrend *Trend `json:"facebookTrend,omitempty"`
}

// Snapshot returns the bucket's numeric fields for trend comparison.
func (br *BucketReport) Snapshot() TrendSnapshot {
	return TrendSnapshot{
		FreeTrialsCount:    br.FreeTrialsCount,
		AttendedCount:      br.AttendedCount,
		AttendanceRate:     br.AttendanceRate,
		TrialToMemberCount: br.TrialToMemberCount,
		ConversionRate:     br.ConversionRate,
		RebookCount:        br.RebookCount,
		TotalRevenue:       br.TotalSales.TotalRevenue,
	}
}

// aggregateBucket computes one month's BucketReport from the bookings created
// in that month. Rates are derived after accumulation, never summed.
func aggregateBucket(bucket Bucket, bookings []booking.Booking, filter booking.QueryFilter, now time.Time) *BucketReport {
	br := &BucketReport{
		Key:   bucket.Key,
		Year:  bucket.Year,
		Month: int(bucket.Month),
		EnrolledStudents: EnrolledStudents{
			ByAge:    make(map[int]int),
			ByGender: make(map[string]int),
			ByVenue:  []VenueStats{},
		},
		AgentSummary:                []AgentStats{},
		PaymentPlansTrend:           []PlanStats{},
		MarketingChannelPerformance: make(map[string]int),
		DurationOfMembership:        make(map[string]int),
		NewStudents:                 []NewStudent{},
	}

	agents := make(map[int]*AgentStats)
	venues := make(map[int]*VenueStats)
	plans := make(map[int]*PlanStats)

	for i := range bookings {
		b := &bookings[i]

		price := b.PlanPrice()
		br.TotalSales.TotalRevenue += price
		br.TotalSales.BookingCount++
		if b.IsPaid() {
			br.TotalSales.TotalPaidRevenue += price
			br.TotalSales.PaidBookingCount++
		} else {
			br.TotalSales.UnpaidBookingCount++
		}

		attended := b.AttendedStudents()
		br.AttendedCount += attended
		if b.IsFreeTrial() {
			br.FreeTrialsCount++
		}
		if b.ConvertedToMember {
			br.TrialToMemberCount++
		}
		if b.Status == booking.StatusRebooked {
			br.RebookCount++
		}

		if a := b.Admin; a != nil {
			ag, ok := agents[a.ID]
			if !ok {
				ag = &AgentStats{AgentID: a.ID, AgentName: a.FullName()}
				agents[a.ID] = ag
			}
			if b.IsFreeTrial() {
				ag.FreeTrialsCount++
			}
			ag.AttendedCount += attended
			if b.ConvertedToMember {
				ag.TrialToMemberCount++
			}
			if b.Status == booking.StatusRebooked {
				ag.RebookCount++
			}
		}

		for _, s := range b.Students {
			br.EnrolledStudents.ByAge[s.Age(now)]++
			gender := core.CleanString(s.Gender, true /* lower */)
			if gender == "" {
				gender = "other"
			}
			br.EnrolledStudents.ByGender[gender]++

			// NOTE: evaluated against the real-world current month, not the
			// bucket's month, reproducing the source behaviour; every
			// historical bucket reports the same (or empty) value. Pending
			// clarification of the intended semantics.
			if s.CreatedAt.Year() == now.Year() && s.CreatedAt.Month() == now.Month() {
				br.NewStudents = append(br.NewStudents, NewStudent{
					FirstName: s.FirstName,
					LastName:  s.LastName,
					CreatedAt: s.CreatedAt,
				})
			}
		}

		if v := b.ResolveVenue(); v != nil {
			vs, ok := venues[v.ID]
			if !ok {
				vs = &VenueStats{VenueID: v.ID, VenueName: v.Name}
				venues[v.ID] = vs
			}
			vs.FreeTrialsCount++
			vs.StudentsCount += len(b.Students)
		}

		if p := b.PaymentPlan; p != nil {
			ps, ok := plans[p.ID]
			if !ok {
				ps = &PlanStats{PlanID: p.ID, Price: p.Price, Interval: p.Interval, Duration: p.Duration}
				plans[p.ID] = ps
			}
			ps.StudentsCount += len(b.Students)

			if band, ok := durationBand(p); ok {
				br.DurationOfMembership[band]++
			}
		}

		if ch := b.LeadChannel(); ch != "" {
			br.MarketingChannelPerformance[ch]++
			if ch == channelFacebook {
				fb := &br.FacebookPerformance
				fb.LeadsGenerated++
				if b.IsFreeTrial() {
					fb.TrialsBooked++
				}
				fb.TrialsAttended += attended
				if b.Status == booking.StatusActive {
					fb.MembershipsSold++
				}
			}
		}
	}

	// derived so the paid+unpaid==total identity holds exactly
	br.TotalSales.TotalUnpaidRevenue = br.TotalSales.TotalRevenue - br.TotalSales.TotalPaidRevenue

	br.AttendanceRate = rate(br.AttendedCount, br.FreeTrialsCount)
	br.ConversionRate = rate(br.TrialToMemberCount, br.FreeTrialsCount)
	br.FacebookPerformance.ConversionRate = rate(br.FacebookPerformance.MembershipsSold, br.FacebookPerformance.LeadsGenerated)

	for _, ag := range agents {
		ag.AttendanceRate = rate(ag.AttendedCount, ag.FreeTrialsCount)
		ag.ConversionRate = rate(ag.TrialToMemberCount, ag.FreeTrialsCount)
		br.AgentSummary = append(br.AgentSummary, *ag)
	}
	sort.Slice(br.AgentSummary, func(i, j int) bool {
		a, b := br.AgentSummary[i], br.AgentSummary[j]
		if a.FreeTrialsCount != b.FreeTrialsCount {
			return a.FreeTrialsCount > b.FreeTrialsCount
		}
		return a.AgentID < b.AgentID
	})

	for _, vs := range venues {
		br.EnrolledStudents.ByVenue = append(br.EnrolledStudents.ByVenue, *vs)
	}
	sort.Slice(br.EnrolledStudents.ByVenue, func(i, j int) bool {
		return br.EnrolledStudents.ByVenue[i].VenueID < br.EnrolledStudents.ByVenue[j].VenueID
	})

	for _, ps := range plans {
		br.PaymentPlansTrend = append(br.PaymentPlansTrend, *ps)
	}
	sort.Slice(br.PaymentPlansTrend, func(i, j int) bool {
		return br.PaymentPlansTrend[i].PlanID < br.PaymentPlansTrend[j].PlanID
	})

	br.FilteredBookings = ApplyFilter(bookings, filter, now)

	return br
}

// rate derives round(n/d*100, 2), or 0 for an empty denominator.
func rate(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return core.Round2(float64(n) / float64(d) * 100)
}

// durationBand buckets a plan's total length into fixed 2-month bands up to 24
// months ("1-2 Months" ... "23-24 Months"). Interval counts convert to months
// (year ×12, quarter ×3, month as-is). Longer plans fall outside the band
// table and are not counted.
func durationBand(p *booking.PaymentPlan) (string, bool) {
	if p == nil || p.Duration <= 0 {
		return "", false
	}
	months := p.Duration
	switch strings.ToLower(p.Interval) {
	case booking.IntervalYear:
		months = p.Duration * 12
	case booking.IntervalQuarter:
		months = p.Duration * 3
	}
	if months > 24 {
		return "", false
	}
	hi := months
	if hi%2 == 1 {
		hi++
	}
	return fmt.Sprintf("%d-%d Months", hi-1, hi), true
}
