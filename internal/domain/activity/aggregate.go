package activity

import (
	"cmp"
	"slices"
	"time"
)

// Standard reporting periods, in days.
const (
	PeriodWeek    = 7
	PeriodMonth   = 30
	PeriodQuarter = 90
	PeriodYear    = 365

	maxCustomPeriod = 730
)

// ParsePeriod validates a period in days. The standard periods and custom
// values up to two years are accepted.
func ParsePeriod(days int) (int, error) {
	if days < 1 || days > maxCustomPeriod {
		return 0, ErrValidation
	}
	return days, nil
}

// Summary holds the headline counts of a snapshot.
type Summary struct {
	Total    int `json:"total"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Posts    int `json:"posts"`
	Logins   int `json:"logins"`
}

// DailyCount is one calendar day of the daily series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DimensionCount is one value of a breakdown dimension.
type DimensionCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Breakdown holds the per-day series and per-dimension rankings.
type Breakdown struct {
	Daily     []DailyCount     `json:"daily"`
	ByType    []DimensionCount `json:"byType"`
	ByBrowser []DimensionCount `json:"byBrowser"`
	ByOS      []DimensionCount `json:"byOS"`
}

// Snapshot is a point-in-time aggregate over a period.
type Snapshot struct {
	Period    int       `json:"period"`
	Summary   Summary   `json:"summary"`
	Breakdown Breakdown `json:"breakdown"`
}

// EmptySnapshot returns a zero-filled snapshot for period ending at now.
func EmptySnapshot(period int, now time.Time, loc *time.Location) Snapshot {
	return Aggregate(nil, period, now, loc)
}

// Aggregate builds a snapshot over the period calendar days ending with
// now's day in loc. Records outside the window, or after now, are ignored.
// Callers scope records before aggregating.
func Aggregate(records []Record, period int, now time.Time, loc *time.Location) Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	if period < 1 {
		period = 1
	}

	first := startOfDay(now, loc).AddDate(0, 0, -(period - 1))
	daily := make([]DailyCount, period)
	index := make(map[string]int, period)
	for i := range period {
		key := first.AddDate(0, 0, i).Format(DayKeyLayout)
		daily[i] = DailyCount{Date: key}
		index[key] = i
	}

	var summary Summary
	byType := map[string]int{}
	byBrowser := map[string]int{}
	byOS := map[string]int{}

	for _, rec := range records {
		if rec.Timestamp.After(now) {
			continue
		}
		i, ok := index[DayBucketKey(rec.Timestamp, loc)]
		if !ok {
			continue
		}
		daily[i].Count++
		summary.Total++

		switch rec.Type {
		case TypePostLike, TypeCommentLike:
			summary.Likes++
		case TypeCommentCreate:
			summary.Comments++
		case TypePostCreate:
			summary.Posts++
		case TypeLogin:
			summary.Logins++
		}

		byType[orUnknown(string(rec.Type))]++
		byBrowser[orUnknown(rec.Browser)]++
		byOS[orUnknown(rec.OS)]++
	}

	return Snapshot{
		Period:  period,
		Summary: summary,
		Breakdown: Breakdown{
			Daily:     daily,
			ByType:    rank(byType),
			ByBrowser: rank(byBrowser),
			ByOS:      rank(byOS),
		},
	}
}

// rank sorts counts descending, ties by value ascending.
func rank(counts map[string]int) []DimensionCount {
	out := make([]DimensionCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, DimensionCount{Value: v, Count: c})
	}
	slices.SortFunc(out, func(a, b DimensionCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// Normalize fills gaps in a snapshot received from elsewhere: nil slices
// become empty and breakdowns are re-sorted into canonical order.
func (s Snapshot) Normalize() Snapshot {
	if s.Breakdown.Daily == nil {
		s.Breakdown.Daily = []DailyCount{}
	}
	s.Breakdown.ByType = resort(s.Breakdown.ByType)
	s.Breakdown.ByBrowser = resort(s.Breakdown.ByBrowser)
	s.Breakdown.ByOS = resort(s.Breakdown.ByOS)
	return s
}

func resort(in []DimensionCount) []DimensionCount {
	counts := make(map[string]int, len(in))
	for _, d := range in {
		counts[orUnknown(d.Value)] += d.Count
	}
	return rank(counts)
}
