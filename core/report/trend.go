package report

import (
	"math"
	"strconv"

	"github.com/akshaywebstep/synco-sub001/core"
)

// Grain controls which snapshot keys a trend carries.
type Grain string

const (
	GrainMonth Grain = "month"
	GrainYear  Grain = "year"
)

// Trend colors
const (
	colorGray  = "gray"
	colorGreen = "green"
	colorRed   = "red"
)

// msgNoPrevious is deliberately grain-agnostic: the upstream consumers key on
// the literal "No previous month" text even for year-grain trends.
const (
	msgNoPrevious = "No previous month"
	msgNoChange   = "No change"
)

// Trend is a signed percentage comparison between a current and a prior
// statistic snapshot, with a qualitative color and message. The compared
// snapshots ride along under grain-specific keys for downstream display.
type Trend struct {
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
	Message string  `json:"message"`

	CurrentMonthStats  interface{} `json:"currentMonthStats,omitempty"`
	PreviousMonthStats interface{} `json:"previousMonthStats,omitempty"`
	CurrentYearStats   interface{} `json:"currentYearStats,omitempty"`
	PreviousYearStats  interface{} `json:"previousYearStats,omitempty"`
}

// TrendInput is one side of a trend comparison: the full stats snapshot for
// display plus the single metric the comparison runs on.
type TrendInput struct {
	Stats  interface{}
	Metric float64
}

// CompareTrend compares current against previous on their designated metric.
// previous == nil means no earlier period exists. Snapshots are attached in
// every branch, including the no-previous and no-change ones.
func CompareTrend(grain Grain, current TrendInput, previous *TrendInput) *Trend {
	t := &Trend{Color: colorGray}
	t.attach(grain, current, previous)

	if previous == nil {
		t.Message = msgNoPrevious
		return t
	}

	cur, prev := current.Metric, previous.Metric
	switch {
	case cur == 0 && prev == 0:
		t.Message = msgNoChange
	case prev == 0:
		t.Percent = 100
		t.Color = colorGreen
		t.Message = "Increased by " + formatPercent(100) + "%"
	default:
		delta := (cur - prev) / prev * 100
		t.Percent = core.Round2(math.Abs(delta))
		if delta >= 0 {
			t.Color = colorGreen
			t.Message = "Increased by " + formatPercent(t.Percent) + "%"
		} else {
			t.Color = colorRed
			t.Message = "Decreased by " + formatPercent(t.Percent) + "%"
		}
	}
	return t
}

func (t *Trend) attach(grain Grain, current TrendInput, previous *TrendInput) {
	var prevStats interface{}
	if previous != nil {
		prevStats = previous.Stats
	}
	switch grain {
	case GrainYear:
		t.CurrentYearStats = current.Stats
		t.PreviousYearStats = prevStats
	default:
		t.CurrentMonthStats = current.Stats
		t.PreviousMonthStats = prevStats
	}
}

// formatPercent renders the shortest decimal representation: 100, 12.5, 0.33.
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
