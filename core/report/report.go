package report

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// Report is the full nested year→month structure plus dataset-wide roll-ups.
type Report struct {
	Years map[int]*YearReport `json:"years"`

	// OverallTrends sums every month's raw counts across all years, with the
	// rate fields re-derived at the end.
	OverallTrends               YearTotals      `json:"overallTrends"`
	OverallMarketingPerformance map[string]int  `json:"overallMarketingPerformance"`
	AllVenues                   []booking.Venue `json:"allVenues"`
}

// venueSet collects every venue seen during one Build call, in first-seen
// order. It is created fresh per invocation and never shared between reports.
type venueSet struct {
	seen  map[int]struct{}
	order []booking.Venue
}

func newVenueSet() *venueSet {
	return &venueSet{seen: make(map[int]struct{})}
}

func (vs *venueSet) add(v *booking.Venue) {
	if v == nil {
		return
	}
	if _, ok := vs.seen[v.ID]; ok {
		return
	}
	vs.seen[v.ID] = struct{}{}
	vs.order = append(vs.order, *v)
}

func (vs *venueSet) list() []booking.Venue {
	if vs.order == nil {
		return []booking.Venue{}
	}
	return vs.order
}

// Build runs the full engine over one loaded booking snapshot. bookings must
// be sorted ascending by creation time; now anchors the relative predicates.
// Any panic inside the pipeline aborts the whole report — there is no partial
// delivery and no per-bucket isolation.
func Build(bookings []booking.Booking, filter booking.QueryFilter, now time.Time) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = errors.Errorf("building report: %v", r)
		}
	}()

	rep = &Report{
		Years:                       make(map[int]*YearReport),
		OverallMarketingPerformance: make(map[string]int),
		AllVenues:                   []booking.Venue{},
	}

	buckets := Bucketize(bookings)
	if len(buckets) == 0 {
		return rep, nil
	}

	// allVenues is collected as a side channel during the single pass,
	// regardless of bucket or filter.
	venues := newVenueSet()
	byKey := make(map[string][]booking.Booking)
	for i := range bookings {
		venues.add(bookings[i].ResolveVenue())
		key := bookings[i].CreatedAt.Format(bucketKeyFormat)
		byKey[key] = append(byKey[key], bookings[i])
	}

	var (
		monthly []*BucketReport
		prev    *BucketReport
	)
	byYear := make(map[int][]*BucketReport)
	for _, bucket := range buckets {
		br := aggregateBucket(bucket, byKey[bucket.Key], filter, now)
		attachMonthTrends(br, prev)
		monthly = append(monthly, br)
		byYear[bucket.Year] = append(byYear[bucket.Year], br)
		prev = br
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var prevYear *YearReport
	for _, y := range years {
		yr := aggregateYear(y, byYear[y])
		attachYearTrends(yr, prevYear)
		rep.Years[y] = yr
		prevYear = yr
	}

	for _, br := range monthly {
		rep.OverallTrends.add(br)
		for ch, n := range br.MarketingChannelPerformance {
			rep.OverallMarketingPerformance[ch] += n
		}
	}
	rep.OverallTrends.deriveRates()
	rep.AllVenues = venues.list()

	return rep, nil
}

// attachMonthTrends computes the bucket's free-trial, sales and facebook
// trends against the previous month, plus each agent's individual trend.
// An agent missing from the previous bucket compares against an all-zero
// snapshot rather than a nil previous, keeping the message branch consistent.
func attachMonthTrends(cur, prev *BucketReport) {
	var (
		prevTrials  *TrendInput
		prevSales   *TrendInput
		prevFB      *TrendInput
		prevAgents  map[int]AgentStats
		prevPresent = prev != nil
	)
	if prevPresent {
		prevSnap := prev.Snapshot()
		prevTrials = &TrendInput{Stats: prevSnap, Metric: float64(prev.FreeTrialsCount)}
		prevSales = &TrendInput{Stats: prevSnap, Metric: prev.TotalSales.TotalRevenue}
		prevFB = &TrendInput{Stats: prev.FacebookPerformance, Metric: float64(prev.FacebookPerformance.LeadsGenerated)}

		prevAgents = make(map[int]AgentStats, len(prev.AgentSummary))
		for _, ag := range prev.AgentSummary {
			prevAgents[ag.AgentID] = ag
		}
	}

	curSnap := cur.Snapshot()
	cur.Trend = CompareTrend(GrainMonth, TrendInput{Stats: curSnap, Metric: float64(cur.FreeTrialsCount)}, prevTrials)
	cur.SalesTrend = CompareTrend(GrainMonth, TrendInput{Stats: curSnap, Metric: cur.TotalSales.TotalRevenue}, prevSales)
	cur.FacebookTrend = CompareTrend(GrainMonth, TrendInput{Stats: cur.FacebookPerformance, Metric: float64(cur.FacebookPerformance.LeadsGenerated)}, prevFB)

	for i := range cur.AgentSummary {
		ag := &cur.AgentSummary[i]
		curIn := TrendInput{Stats: ag.snapshot(), Metric: float64(ag.FreeTrialsCount)}
		if !prevPresent {
			ag.Trend = CompareTrend(GrainMonth, curIn, nil)
			continue
		}
		pa, ok := prevAgents[ag.AgentID]
		if !ok {
			pa = AgentStats{AgentID: ag.AgentID, AgentName: ag.AgentName}
		}
		ag.Trend = CompareTrend(GrainMonth, curIn, &TrendInput{Stats: pa.snapshot(), Metric: float64(pa.FreeTrialsCount)})
	}
}

// attachYearTrends compares a year's totals against the previous year,
// treated as absent when that year has no data.
func attachYearTrends(cur, prev *YearReport) {
	var prevTrials, prevSales, prevFB *TrendInput
	if prev != nil && prev.Year == cur.Year-1 {
		prevSnap := prev.Totals.Snapshot()
		prevTrials = &TrendInput{Stats: prevSnap, Metric: float64(prev.Totals.FreeTrialsCount)}
		prevSales = &TrendInput{Stats: prevSnap, Metric: prev.Totals.TotalSales.TotalRevenue}
		prevFB = &TrendInput{Stats: prev.Totals.FacebookPerformance, Metric: float64(prev.Totals.FacebookPerformance.LeadsGenerated)}
	}

	curSnap := cur.Totals.Snapshot()
	cur.Trend = CompareTrend(GrainYear, TrendInput{Stats: curSnap, Metric: float64(cur.Totals.FreeTrialsCount)}, prevTrials)
	cur.SalesTrend = CompareTrend(GrainYear, TrendInput{Stats: curSnap, Metric: cur.Totals.TotalSales.TotalRevenue}, prevSales)
	cur.FacebookTrend = CompareTrend(GrainYear, TrendInput{Stats: cur.Totals.FacebookPerformance, Metric: float64(cur.Totals.FacebookPerformance.LeadsGenerated)}, prevFB)
}
