package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"baby-care-tracker/internal/adapters/storage/memory"
	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/reports"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familyID = "fam-1"

type world struct {
	dash       *Service
	babies     *babies.Service
	activities *activities.Service
	reports    *reports.Service
	actor      activities.Actor
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	cgSvc := caregivers.NewService(store.Caregivers())
	holder, err := cgSvc.CreateAccountHolder(ctx, caregivers.AccountHolderInput{
		PrincipalID: "cg-1",
		FamilyID:    familyID,
		Name:        "Ana",
		Phone:       "11999998888",
		Email:       "x@babybot.app",
	})
	require.NoError(t, err)
	_, err = cgSvc.Add(ctx, familyID, caregivers.AddInput{Name: "Rosa", Phone: "11977776666", Relationship: "nanny"})
	require.NoError(t, err)

	w := &world{
		babies: babies.NewService(store.Babies()),
		actor:  activities.Actor{FamilyID: familyID, CaregiverID: holder.ID},
	}
	w.activities = activities.NewService(store.Activities(), w.babies, activities.WithClock(func() time.Time { return now }))
	w.reports = reports.NewService(store.Reporter(), w.babies)
	w.dash = NewService(w.babies, cgSvc, w.activities, w.reports, WithClock(func() time.Time { return now }))
	return w
}

func (w *world) baby(t *testing.T, name string) babies.Baby {
	t.Helper()
	b, err := w.babies.Create(context.Background(), familyID, babies.CreateInput{
		Name:      name,
		BirthDate: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func (w *world) record(t *testing.T, babyID string, start time.Time, end *time.Time, d activities.Detail) activities.Record {
	t.Helper()
	r, err := w.activities.Create(context.Background(), w.actor, activities.CreateInput{
		BabyID:    babyID,
		StartedAt: start,
		EndedAt:   end,
		Detail:    d,
	})
	require.NoError(t, err)
	return r
}

func at(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC) }

func ptr[T any](v T) *T { return &v }

func TestOverview(t *testing.T) {
	w := newWorld(t)
	lu := w.baby(t, "Lucía")
	w.baby(t, "Tomás")

	w.record(t, lu.ID, at(8, 0), nil, activities.Feeding{Type: activities.FeedingBottle, AmountML: ptr(120)})
	w.record(t, lu.ID, at(11, 0), ptr(at(11, 40)), activities.Walk{Location: activities.WalkPark})
	w.record(t, lu.ID, at(1, 0), ptr(at(2, 30)), activities.Sleep{})
	w.record(t, lu.ID, at(12, 0), ptr(at(13, 0)), activities.Sleep{})
	w.record(t, lu.ID, at(9, 0), nil, activities.Growth{WeightGrams: 6200})
	// ayer: no cuenta
	w.record(t, lu.ID, at(8, 0).AddDate(0, 0, -1), nil, activities.Feeding{Type: activities.FeedingWater})

	ov, err := w.dash.Overview(context.Background(), familyID)
	require.NoError(t, err)

	want := Totals{Babies: 2, Caregivers: 2, FeedingsToday: 1, SleepHoursToday: 3, WalksToday: 1}
	if diff := cmp.Diff(want, ov.Totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, ov.Babies, 2)
	var card BabyCard
	for _, c := range ov.Babies {
		if c.ID == lu.ID {
			card = c
		}
	}
	assert.Equal(t, "Lucía", card.Name)
	assert.False(t, card.Degraded)
	assert.Equal(t, 150, card.SleepMinutesToday)
	require.NotNil(t, card.LatestGrowth)
	assert.Equal(t, 6200, card.LatestGrowth.WeightGrams)
	require.NotNil(t, card.Status)
	assert.Equal(t, babies.AgeAt(lu.BirthDate, now).Days, card.AgeDays)
}

// flakyReports falla el estado actual de un bebé puntual.
type flakyReports struct {
	*reports.Service
	failBaby string
}

func (f flakyReports) CurrentStatus(ctx context.Context, familyID, babyID string) (reports.CurrentStatus, error) {
	if babyID == f.failBaby {
		return reports.CurrentStatus{}, errors.New("rpc timeout")
	}
	return f.Service.CurrentStatus(ctx, familyID, babyID)
}

func TestOverview_PerBabyFailureIsTolerated(t *testing.T) {
	w := newWorld(t)
	bad := w.baby(t, "Lucía")
	good := w.baby(t, "Tomás")

	dash := NewService(w.babies, w.dash.caregivers, w.activities, flakyReports{Service: w.reports, failBaby: bad.ID}, WithClock(func() time.Time { return now }))
	ov, err := dash.Overview(context.Background(), familyID)
	require.NoError(t, err)

	for _, c := range ov.Babies {
		switch c.ID {
		case bad.ID:
			assert.True(t, c.Degraded)
			assert.Nil(t, c.Status)
		case good.ID:
			assert.False(t, c.Degraded)
			assert.NotNil(t, c.Status)
		}
	}
}

func TestActivities_Enriched(t *testing.T) {
	w := newWorld(t)
	lu := w.baby(t, "Lucía")

	w.record(t, lu.ID, at(10, 0), ptr(at(10, 0)), activities.Sleep{Location: activities.SleepCrib})
	w.record(t, lu.ID, at(14, 0), nil, activities.Sleep{})

	items, err := w.dash.Activities(context.Background(), familyID, ListQuery{Kind: activities.KindSleep})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// orden: más reciente primero
	assert.True(t, items[0].InProgress)
	assert.Nil(t, items[0].DurationMinutes)
	assert.Equal(t, "Lucía", items[0].BabyName)
	assert.Equal(t, "Ana", items[0].CaregiverName)

	require.NotNil(t, items[1].DurationMinutes)
	assert.Equal(t, 1, *items[1].DurationMinutes)
	assert.Equal(t, "crib", items[1].Location)
}

func TestDiapers(t *testing.T) {
	w := newWorld(t)
	lu := w.baby(t, "Lucía")

	w.record(t, lu.ID, at(9, 0), nil, activities.Diaper{Type: activities.DiaperUrine, SmellIntensity: 1})
	w.record(t, lu.ID, at(10, 0), nil, activities.Diaper{Type: activities.DiaperSolid, Consistency: activities.ConsistencyPasty})
	w.record(t, lu.ID, at(10, 0).AddDate(0, 0, -2), nil, activities.Diaper{Type: activities.DiaperGas})

	view, err := w.dash.Diapers(context.Background(), familyID, lu.ID, PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, 2, view.Today.Total)
	require.Len(t, view.Chart, 7)
	assert.Equal(t, 2, view.Chart[6].Total)
	assert.Equal(t, 1, view.Chart[4].Total)
	require.Len(t, view.Recent, 3)
	assert.Equal(t, "Lucía", view.Recent[0].BabyName)
}
