package health

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date key format used for grouping.
const DateLayout = "2006-01-02"

// HistoryWindowDays is the length of the rolling history window.
const HistoryWindowDays = 7

// DailyStats maps every activity type to its summed value for one day.
type DailyStats map[ActivityType]float64

func newDailyStats() DailyStats {
	s := make(DailyStats, len(Types))
	for _, t := range Types {
		s[t] = 0
	}
	return s
}

// DayStats pairs a calendar date with its totals.
type DayStats struct {
	Date  string
	Stats DailyStats
}

// History groups records by calendar date.
type History map[string][]ActivityRecord

// Dates returns the group keys, newest first.
func (h History) Dates() []string {
	dates := make([]string, 0, len(h))
	for d := range h {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// Filter keeps only records of type t; dates left empty are dropped.
func (h History) Filter(t ActivityType) History {
	out := make(History)
	for d, recs := range h {
		var kept []ActivityRecord
		for _, r := range recs {
			if r.Type == t {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			out[d] = kept
		}
	}
	return out
}

// Count returns the number of records across every date.
func (h History) Count() int {
	n := 0
	for _, recs := range h {
		n += len(recs)
	}
	return n
}

// SortByID returns a copy ordered by identifier, descending. This is the
// order the history list displays within a day.
func SortByID(records []ActivityRecord) []ActivityRecord {
	out := make([]ActivityRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Aggregator derives statistics from a fresh read of the record store.
type Aggregator struct {
	records *RecordStore
	now     func() time.Time
	loc     *time.Location
}

// NewAggregator builds an aggregator. A nil clock means time.Now and a nil
// location means time.Local.
func NewAggregator(records *RecordStore, now func() time.Time, loc *time.Location) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{records: records, now: now, loc: loc}
}

// Now returns the aggregator's clock reading in its location.
func (a *Aggregator) Now() time.Time {
	return a.now().In(a.loc)
}

// DateKey formats t as a calendar date in the aggregator's location.
func (a *Aggregator) DateKey(t time.Time) string {
	return t.In(a.loc).Format(DateLayout)
}

// DailyStats sums values per type over records on date's calendar day,
// ignoring time of day.
func (a *Aggregator) DailyStats(date time.Time) DailyStats {
	return a.dailyStats(a.records.All(), a.DateKey(date))
}

// Today is DailyStats for the clock's current day.
func (a *Aggregator) Today() DailyStats {
	return a.DailyStats(a.now())
}

func (a *Aggregator) dailyStats(records []ActivityRecord, key string) DailyStats {
	stats := newDailyStats()
	for _, r := range records {
		if a.DateKey(r.OccurredAt) == key {
			stats[r.Type] += r.Value
		}
	}
	return stats
}

// HistoryLast7Days groups every record at or after now minus seven days.
// The cutoff is an instant, not a day boundary.
func (a *Aggregator) HistoryLast7Days() History {
	cutoff := a.Now().AddDate(0, 0, -HistoryWindowDays)

	grouped := make(History)
	for _, r := range a.records.All() {
		if r.OccurredAt.Before(cutoff) {
			continue
		}
		key := a.DateKey(r.OccurredAt)
		grouped[key] = append(grouped[key], r)
	}
	return grouped
}

// Week returns per-day totals for the seven calendar days ending today,
// oldest first.
func (a *Aggregator) Week() []DayStats {
	records := a.records.All()
	now := a.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)

	week := make([]DayStats, 0, HistoryWindowDays)
	for i := HistoryWindowDays - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(DateLayout)
		week = append(week, DayStats{Date: key, Stats: a.dailyStats(records, key)})
	}
	return week
}
