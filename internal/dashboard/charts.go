package dashboard

import (
	"time"

	"baby-care-tracker/internal/domain/activities"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DiaperTodayStats cuenta los pañales del día de now (en su zona horaria).
func DiaperTodayStats(records []activities.Record, now time.Time) DiaperStats {
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)

	st := DiaperStats{ByType: map[activities.DiaperType]int{}}
	for _, r := range records {
		d, ok := r.Detail.(activities.Diaper)
		if !ok {
			continue
		}
		at := r.StartedAt.In(now.Location())
		if at.Before(from) || !at.Before(to) {
			continue
		}
		st.Total++
		st.ByType[d.Type]++
	}
	return st
}

// DiaperChart agrupa los pañales en buckets que terminan en el día de now:
// day = 24 horas de hoy, week = 7 días, month = 30 días.
func DiaperChart(records []activities.Record, period Period, now time.Time) []Bucket {
	buckets := makeBuckets(period, now)
	if len(buckets) == 0 {
		return buckets
	}
	first := buckets[0].Start
	end := bucketEnd(period, buckets[len(buckets)-1].Start)

	for _, r := range records {
		d, ok := r.Detail.(activities.Diaper)
		if !ok {
			continue
		}
		at := r.StartedAt.In(now.Location())
		if at.Before(first) || !at.Before(end) {
			continue
		}
		i := bucketIndex(period, first, at)
		if i < 0 || i >= len(buckets) {
			continue
		}
		buckets[i].Total++
		buckets[i].ByType[d.Type]++
	}
	return buckets
}

func makeBuckets(period Period, now time.Time) []Bucket {
	today := startOfDay(now)

	var out []Bucket
	switch period {
	case PeriodDay:
		out = make([]Bucket, 0, 24)
		for h := 0; h < 24; h++ {
			start := today.Add(time.Duration(h) * time.Hour)
			out = append(out, Bucket{Start: start, Label: start.Format("15:04")})
		}
	case PeriodWeek, PeriodMonth:
		n := 7
		if period == PeriodMonth {
			n = 30
		}
		out = make([]Bucket, 0, n)
		for i := n - 1; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			out = append(out, Bucket{Start: start, Label: start.Format("02/01")})
		}
	}
	for i := range out {
		out[i].ByType = map[activities.DiaperType]int{}
	}
	return out
}

func bucketEnd(period Period, lastStart time.Time) time.Time {
	if period == PeriodDay {
		return lastStart.Add(time.Hour)
	}
	return lastStart.AddDate(0, 0, 1)
}

func bucketIndex(period Period, first, at time.Time) int {
	if period == PeriodDay {
		return int(at.Sub(first) / time.Hour)
	}
	// por fecha de calendario: tolera días de 23/25 horas
	i := 0
	for d := first; !d.AddDate(0, 0, 1).After(startOfDay(at)); d = d.AddDate(0, 0, 1) {
		i++
	}
	return i
}
