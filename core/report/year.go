package report

// YearTotals mirrors the bucket numeric fields summed over a set of months.
// Rate fields are re-derived from the summed counts after aggregation, never
// summed or averaged, to avoid compounding rounding error.
type YearTotals struct {
	TotalSales TotalSales `json:"totalSales"`

	FreeTrialsCount    int     `json:"freeTrialsCount"`
	AttendedCount      int     `json:"attendedCount"`
	AttendanceRate     float64 `json:"attendanceRate"`
	TrialToMemberCount int     `json:"trialToMemberCount"`
	ConversionRate     float64 `json:"conversionRate"`
	RebookCount        int     `json:"rebookCount"`

	FacebookPerformance FacebookPerformance `json:"facebookPerformance"`
}

// Snapshot returns the totals' numeric fields for trend comparison.
func (t *YearTotals) Snapshot() TrendSnapshot {
	return TrendSnapshot{
		FreeTrialsCount:    t.FreeTrialsCount,
		AttendedCount:      t.AttendedCount,
		AttendanceRate:     t.AttendanceRate,
		TrialToMemberCount: t.TrialToMemberCount,
		ConversionRate:     t.ConversionRate,
		RebookCount:        t.RebookCount,
		TotalRevenue:       t.TotalSales.TotalRevenue,
	}
}

// add accumulates one month's raw counts. deriveRates must run once all
// months are in.
func (t *YearTotals) add(br *BucketReport) {
	t.TotalSales.TotalRevenue += br.TotalSales.TotalRevenue
	t.TotalSales.TotalPaidRevenue += br.TotalSales.TotalPaidRevenue
	t.TotalSales.TotalUnpaidRevenue += br.TotalSales.TotalUnpaidRevenue
	t.TotalSales.BookingCount += br.TotalSales.BookingCount
	t.TotalSales.PaidBookingCount += br.TotalSales.PaidBookingCount
	t.TotalSales.UnpaidBookingCount += br.TotalSales.UnpaidBookingCount

	t.FreeTrialsCount += br.FreeTrialsCount
	t.AttendedCount += br.AttendedCount
	t.TrialToMemberCount += br.TrialToMemberCount
	t.RebookCount += br.RebookCount

	t.FacebookPerformance.LeadsGenerated += br.FacebookPerformance.LeadsGenerated
	t.FacebookPerformance.TrialsBooked += br.FacebookPerformance.TrialsBooked
	t.FacebookPerformance.TrialsAttended += br.FacebookPerformance.TrialsAttended
	t.FacebookPerformance.MembershipsSold += br.FacebookPerformance.MembershipsSold
}

func (t *YearTotals) deriveRates() {
	t.AttendanceRate = rate(t.AttendedCount, t.FreeTrialsCount)
	t.ConversionRate = rate(t.TrialToMemberCount, t.FreeTrialsCount)
	t.FacebookPerformance.ConversionRate = rate(t.FacebookPerformance.MembershipsSold, t.FacebookPerformance.LeadsGenerated)
}

// YearReport rolls one year's monthly buckets up into yearly totals.
type YearReport struct {
	Year   int                      `json:"year"`
	Months map[string]*BucketReport `json:"months"` // keyed MM-YYYY
	Totals YearTotals               `json:"totals"`

	MarketingChannelPerformance map[string]int `json:"marketingChannelPerformance"`

	Trend         *Trend `json:"trend,omitempty"`
	SalesTrend    *Trend `json:"salesTrend,omitempty"`
	FacebookTrend *Trend `json:"facebookTrend,omitempty"`
}

func aggregateYear(year int, months []*BucketReport) *YearReport {
	yr := &YearReport{
		Year:                        year,
		Months:                      make(map[string]*BucketReport, len(months)),
		MarketingChannelPerformance: make(map[string]int),
	}
	for _, br := range months {
		yr.Months[br.Key] = br
		yr.Totals.add(br)
		for ch, n := range br.MarketingChannelPerformance {
			yr.MarketingChannelPerformance[ch] += n
		}
	}
	yr.Totals.deriveRates()
	return yr
}
