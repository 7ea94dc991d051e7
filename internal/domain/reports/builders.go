package reports

import (
	"math"
	"sort"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
)

// DayBounds devuelve [00:00, 00:00 del día siguiente) en la zona de day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func inDay(t, day time.Time) bool {
	from, to := DayBounds(day)
	return !t.Before(from) && t.Before(to)
}

// BuildDailySleep agrega los registros de sueño que empiezan en day.
func BuildDailySleep(babyID string, day time.Time, records []activities.Record) DailySleep {
	out := DailySleep{
		BabyID:   babyID,
		Date:     day.Format("2006-01-02"),
		Sessions: []SleepSession{},
	}

	for _, r := range sortedAsc(records) {
		if r.Kind != activities.KindSleep || r.BabyID != babyID || !inDay(r.StartedAt, day) {
			continue
		}
		s := SleepSession{RecordID: r.ID, StartedAt: r.StartedAt, EndedAt: r.EndedAt}
		if d, ok := r.Detail.(activities.Sleep); ok {
			s.Location = string(d.Location)
		}
		if m, ok := r.DurationMinutes(); ok {
			s.DurationMinutes = m
			out.TotalMinutes += m
			out.TotalSessions++
			if m > out.LongestMinutes {
				out.LongestMinutes = m
			}
		}
		out.Sessions = append(out.Sessions, s)
	}
	if out.TotalSessions > 0 {
		out.AverageMinutes = out.TotalMinutes / out.TotalSessions
	}
	return out
}

// BuildDailyFeeding agrega las alimentaciones de day.
func BuildDailyFeeding(babyID string, day time.Time, records []activities.Record) DailyFeeding {
	out := DailyFeeding{
		BabyID:  babyID,
		Date:    day.Format("2006-01-02"),
		Details: []FeedingDetail{},
	}

	for _, r := range sortedAsc(records) {
		if r.Kind != activities.KindFeeding || r.BabyID != babyID || !inDay(r.StartedAt, day) {
			continue
		}
		f, ok := r.Detail.(activities.Feeding)
		if !ok {
			continue
		}

		out.TotalFeedings++
		d := FeedingDetail{RecordID: r.ID, At: r.StartedAt, Type: string(f.Type), AmountML: f.AmountML, Side: string(f.Side)}
		switch f.Type {
		case activities.FeedingBreast:
			out.BreastfeedingCount++
			if m, ok := r.DurationMinutes(); ok {
				out.TotalBreastfeedingMinutes += m
				d.DurationMinutes = &m
			}
		case activities.FeedingBottle:
			out.BottleCount++
			if f.AmountML != nil {
				out.TotalBottleML += *f.AmountML
			}
		}
		out.Details = append(out.Details, d)
	}
	return out
}

// BuildCurrentStatus: durmiendo > paseando > despierto (desde el último sueño terminado).
func BuildCurrentStatus(b babies.Baby, records []activities.Record, now time.Time) CurrentStatus {
	out := CurrentStatus{BabyID: b.ID, BabyName: b.Name, Status: StatusAwake}

	var (
		openSleep, openWalk, lastSleep, lastFeeding *activities.Record
	)
	for i := range records {
		r := &records[i]
		if r.BabyID != b.ID {
			continue
		}
		switch r.Kind {
		case activities.KindSleep:
			if r.EndedAt == nil {
				if openSleep == nil || r.StartedAt.After(openSleep.StartedAt) {
					openSleep = r
				}
			} else if lastSleep == nil || r.EndedAt.After(*lastSleep.EndedAt) {
				lastSleep = r
			}
		case activities.KindWalk:
			if r.EndedAt == nil && (openWalk == nil || r.StartedAt.After(openWalk.StartedAt)) {
				openWalk = r
			}
		case activities.KindFeeding:
			if lastFeeding == nil || r.StartedAt.After(lastFeeding.StartedAt) {
				lastFeeding = r
			}
		}
	}

	switch {
	case openSleep != nil:
		out.Status = StatusSleeping
		out.Since = timePtr(openSleep.StartedAt)
	case openWalk != nil:
		out.Status = StatusWalking
		out.Since = timePtr(openWalk.StartedAt)
	case lastSleep != nil:
		out.Since = timePtr(*lastSleep.EndedAt)
	}

	if lastFeeding != nil {
		out.LastFeeding = timePtr(lastFeeding.StartedAt)
		if f, ok := lastFeeding.Detail.(activities.Feeding); ok {
			out.LastFeedingType = string(f.Type)
		}
		h := math.Round(now.Sub(lastFeeding.StartedAt).Hours()*10) / 10
		if h < 0 {
			h = 0
		}
		out.HoursSinceLastFeeding = &h
	}
	return out
}

// BuildGrowthReport resume las mediciones de [from, to]. nil = sin límite.
func BuildGrowthReport(b babies.Baby, records []activities.Record, from, to *time.Time) GrowthReport {
	out := GrowthReport{BabyID: b.ID, Measurements: []GrowthPoint{}}

	for _, r := range sortedAsc(records) {
		if r.Kind != activities.KindGrowth || r.BabyID != b.ID {
			continue
		}
		if from != nil && r.StartedAt.Before(*from) {
			continue
		}
		if to != nil && r.StartedAt.After(*to) {
			continue
		}
		if p, ok := GrowthPointOf(b, r); ok {
			out.Measurements = append(out.Measurements, p)
		}
	}

	out.TotalMeasurements = len(out.Measurements)
	if out.TotalMeasurements == 0 {
		return out
	}

	first := out.Measurements[0]
	last := out.Measurements[len(out.Measurements)-1]
	out.FirstMeasurement = timePtr(first.MeasuredAt)
	out.LatestMeasurement = timePtr(last.MeasuredAt)
	out.WeightGainGrams = last.WeightGrams - first.WeightGrams
	out.HeightGainCM = diff(first.HeightCM, last.HeightCM)
	out.HeadGrowthCM = diff(first.HeadCircumferenceCM, last.HeadCircumferenceCM)

	if days := last.MeasuredAt.Sub(first.MeasuredAt).Hours() / 24; days >= 1 {
		avg := math.Round(float64(out.WeightGainGrams)/(days/30)*10) / 10
		out.AverageWeightGainPerMonth = &avg
	}
	return out
}

// LatestGrowthOf devuelve la medición más reciente.
func LatestGrowthOf(b babies.Baby, records []activities.Record) (GrowthPoint, bool) {
	var latest *activities.Record
	for i := range records {
		r := &records[i]
		if r.Kind != activities.KindGrowth || r.BabyID != b.ID {
			continue
		}
		if latest == nil || r.StartedAt.After(latest.StartedAt) {
			latest = r
		}
	}
	if latest == nil {
		return GrowthPoint{}, false
	}
	return GrowthPointOf(b, *latest)
}

func GrowthPointOf(b babies.Baby, r activities.Record) (GrowthPoint, bool) {
	g, ok := r.Detail.(activities.Growth)
	if !ok {
		return GrowthPoint{}, false
	}
	return GrowthPoint{
		RecordID:            r.ID,
		MeasuredAt:          r.StartedAt,
		AgeDays:             babies.AgeAt(b.BirthDate, r.StartedAt).Days,
		WeightGrams:         g.WeightGrams,
		HeightCM:            g.HeightCM,
		HeadCircumferenceCM: g.HeadCircumferenceCM,
	}, true
}

func sortedAsc(records []activities.Record) []activities.Record {
	out := make([]activities.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := math.Round((*b-*a)*10) / 10
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }
