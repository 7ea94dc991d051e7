package reports

import (
	"testing"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day  = time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	baby = babies.Baby{ID: "b-1", Name: "Lia", BirthDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)}
)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func ptr[T any](v T) *T { return &v }

func sleepRec(id string, start time.Time, end *time.Time) activities.Record {
	return activities.Record{ID: id, BabyID: "b-1", Kind: activities.KindSleep, StartedAt: start, EndedAt: end, Detail: activities.Sleep{Location: activities.SleepCrib}}
}

func TestBuildDailySleep(t *testing.T) {
	records := []activities.Record{
		sleepRec("s3", at(20, 0), nil),
		sleepRec("s1", at(1, 0), ptr(at(3, 30))),
		sleepRec("s2", at(13, 0), ptr(at(13, 45))),
		sleepRec("yesterday", day.Add(-2*time.Hour), ptr(at(0, 30))),
		{ID: "other", BabyID: "b-2", Kind: activities.KindSleep, StartedAt: at(2, 0), EndedAt: ptr(at(4, 0)), Detail: activities.Sleep{}},
	}

	got := BuildDailySleep("b-1", day, records)

	assert.Equal(t, "2025-04-10", got.Date)
	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 150+45, got.TotalMinutes)
	assert.Equal(t, 150, got.LongestMinutes)
	assert.Equal(t, 97, got.AverageMinutes)
	require.Len(t, got.Sessions, 3)
	assert.Equal(t, "s1", got.Sessions[0].RecordID)
	assert.Nil(t, got.Sessions[2].EndedAt)
	assert.InDelta(t, 3.25, got.Hours(), 0.001)
}

func TestBuildDailyFeeding(t *testing.T) {
	records := []activities.Record{
		{ID: "f1", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(6, 0), EndedAt: ptr(at(6, 20)), Detail: activities.Feeding{Type: activities.FeedingBreast, Side: activities.SideLeft}},
		{ID: "f2", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(9, 0), Detail: activities.Feeding{Type: activities.FeedingBottle, AmountML: ptr(120)}},
		{ID: "f3", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(12, 0), Detail: activities.Feeding{Type: activities.FeedingPuree}},
		{ID: "f4", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(15, 0), Detail: activities.Feeding{Type: activities.FeedingBottle, AmountML: ptr(90)}},
		{ID: "f5", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(18, 0), Detail: activities.Feeding{Type: activities.FeedingBreast, Side: activities.SideRight}},
	}

	got := BuildDailyFeeding("b-1", day, records)

	assert.Equal(t, 5, got.TotalFeedings)
	assert.Equal(t, 2, got.BreastfeedingCount)
	assert.Equal(t, 2, got.BottleCount)
	assert.Equal(t, 210, got.TotalBottleML)
	assert.Equal(t, 20, got.TotalBreastfeedingMinutes)
	require.Len(t, got.Details, 5)
	assert.Nil(t, got.Details[4].DurationMinutes)
}

func TestBuildCurrentStatus(t *testing.T) {
	now := at(16, 0)
	feeding := activities.Record{ID: "f1", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: at(13, 30), Detail: activities.Feeding{Type: activities.FeedingBottle, AmountML: ptr(100)}}

	awake := BuildCurrentStatus(baby, []activities.Record{sleepRec("s1", at(10, 0), ptr(at(11, 0))), feeding}, now)
	assert.Equal(t, StatusAwake, awake.Status)
	require.NotNil(t, awake.Since)
	assert.Equal(t, at(11, 0), *awake.Since)
	require.NotNil(t, awake.HoursSinceLastFeeding)
	assert.InDelta(t, 2.5, *awake.HoursSinceLastFeeding, 0.001)
	assert.Equal(t, "bottle", awake.LastFeedingType)

	walk := activities.Record{ID: "w1", BabyID: "b-1", Kind: activities.KindWalk, StartedAt: at(15, 0), Detail: activities.Walk{}}
	walking := BuildCurrentStatus(baby, []activities.Record{walk}, now)
	assert.Equal(t, StatusWalking, walking.Status)
	assert.Nil(t, walking.LastFeeding)

	sleeping := BuildCurrentStatus(baby, []activities.Record{walk, sleepRec("s2", at(15, 30), nil)}, now)
	assert.Equal(t, StatusSleeping, sleeping.Status)
	assert.Equal(t, at(15, 30), *sleeping.Since)
	assert.Equal(t, "Lia", sleeping.BabyName)
}

func TestBuildGrowthReport(t *testing.T) {
	g := func(id string, ts time.Time, grams int, height float64) activities.Record {
		return activities.Record{ID: id, BabyID: "b-1", Kind: activities.KindGrowth, StartedAt: ts, Detail: activities.Growth{WeightGrams: grams, HeightCM: ptr(height)}}
	}
	records := []activities.Record{
		g("g2", baby.BirthDate.AddDate(0, 0, 30), 4200, 54.0),
		g("g1", baby.BirthDate, 3300, 50.0),
		g("g3", baby.BirthDate.AddDate(0, 0, 60), 5100, 57.5),
	}

	got := BuildGrowthReport(baby, records, nil, nil)

	assert.Equal(t, 3, got.TotalMeasurements)
	assert.Equal(t, 1800, got.WeightGainGrams)
	require.NotNil(t, got.HeightGainCM)
	assert.InDelta(t, 7.5, *got.HeightGainCM, 0.001)
	assert.Nil(t, got.HeadGrowthCM)
	require.NotNil(t, got.AverageWeightGainPerMonth)
	assert.InDelta(t, 900, *got.AverageWeightGainPerMonth, 0.001)
	assert.Equal(t, 60, got.Measurements[2].AgeDays)

	from := baby.BirthDate.AddDate(0, 0, 20)
	ranged := BuildGrowthReport(baby, records, &from, nil)
	assert.Equal(t, 2, ranged.TotalMeasurements)

	latest, ok := LatestGrowthOf(baby, records)
	require.True(t, ok)
	assert.Equal(t, "g3", latest.RecordID)

	_, ok = LatestGrowthOf(baby, nil)
	assert.False(t, ok)
}
