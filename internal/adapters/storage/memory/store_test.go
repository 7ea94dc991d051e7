package memory

import (
	"context"
	"testing"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Families().Create(ctx, families.Family{ID: "fam-1", Phone: "5511999990000", CreatedAt: t0}))
	require.NoError(t, s.Families().Create(ctx, families.Family{ID: "fam-2", CreatedAt: t0}))
	require.NoError(t, s.Babies().Create(ctx, babies.Baby{ID: "b-1", FamilyID: "fam-1", Name: "Lia", IsActive: true, CreatedAt: t0}))
	require.NoError(t, s.Babies().Create(ctx, babies.Baby{ID: "b-2", FamilyID: "fam-2", Name: "Tom", IsActive: true, CreatedAt: t0}))
	return s
}

func TestFamilies_GetByPhoneReturnsOldest(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	require.NoError(t, s.Families().Create(ctx, families.Family{ID: "fam-old", Phone: "5511999990000", CreatedAt: t0.Add(-time.Hour)}))

	f, err := s.Families().GetByPhone(ctx, "5511999990000")
	require.NoError(t, err)
	assert.Equal(t, "fam-old", f.ID)

	_, err = s.Families().GetByPhone(ctx, "000")
	assert.ErrorIs(t, err, families.ErrNotFound)
}

func TestCaregivers_LoginPhoneIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := seed(t).Caregivers()

	require.NoError(t, repo.Create(ctx, caregivers.Caregiver{ID: "nanny", FamilyID: "fam-1", Phone: "5511988887777", CreatedAt: t0}))
	require.NoError(t, repo.Create(ctx, caregivers.Caregiver{ID: "acc-1", FamilyID: "fam-1", Phone: "5511988887777", Email: "x@babybot.app", CreatedAt: t0.Add(time.Minute)}))

	err := repo.Create(ctx, caregivers.Caregiver{ID: "acc-2", FamilyID: "fam-1", Phone: "5511988887777", Email: "y@babybot.app"})
	assert.ErrorIs(t, err, caregivers.ErrPhoneTaken)

	// el perfil con email de login gana aunque sea más nuevo
	c, err := repo.GetByPhone(ctx, "5511988887777")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", c.ID)
}

func TestActivities_SingleOpenRecordPerActivity(t *testing.T) {
	ctx := context.Background()
	repo := seed(t).Activities()

	open := activities.Record{ID: "s1", BabyID: "b-1", Kind: activities.KindSleep, StartedAt: t0, Detail: activities.Sleep{}}
	require.NoError(t, repo.Create(ctx, open))

	dup := open
	dup.ID = "s2"
	assert.ErrorIs(t, repo.Create(ctx, dup), activities.ErrInProgress)

	// un paseo en curso no choca con el sueño
	walk := activities.Record{ID: "w1", BabyID: "b-1", Kind: activities.KindWalk, StartedAt: t0, Detail: activities.Walk{}}
	require.NoError(t, repo.Create(ctx, walk))

	// un biberón no es temporizado
	bottle := activities.Record{ID: "f1", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: t0, Detail: activities.Feeding{Type: activities.FeedingBottle, AmountML: ptr(90)}}
	breast := activities.Record{ID: "f2", BabyID: "b-1", Kind: activities.KindFeeding, StartedAt: t0, Detail: activities.Feeding{Type: activities.FeedingBreast, Side: activities.SideLeft}}
	require.NoError(t, repo.Create(ctx, bottle))
	require.NoError(t, repo.Create(ctx, breast))

	end := t0.Add(time.Hour)
	open.EndedAt = &end
	require.NoError(t, repo.Update(ctx, open))
	require.NoError(t, repo.Create(ctx, dup))
}

func TestActivities_ListScopedByFamily(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	repo := s.Activities()

	for i, baby := range []string{"b-1", "b-1", "b-2"} {
		rec := activities.Record{
			ID:        string(rune('a' + i)),
			BabyID:    baby,
			Kind:      activities.KindDiaper,
			StartedAt: t0.Add(time.Duration(i) * time.Hour),
			Detail:    activities.Diaper{Type: activities.DiaperUrine, SmellIntensity: 1},
		}
		require.NoError(t, repo.Create(ctx, rec))
	}

	got, err := repo.List(ctx, activities.ListFilter{FamilyID: "fam-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)

	got, err = repo.List(ctx, activities.ListFilter{FamilyID: "fam-1", Limit: 1, Kinds: []activities.Kind{activities.KindSleep}})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.GetByID(ctx, activities.KindDiaper, "zz")
	assert.ErrorIs(t, err, activities.ErrNotFound)
}

func TestReporter_CurrentStatus(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	rep := s.Reporter().(*reporter)
	rep.now = func() time.Time { return t0.Add(2 * time.Hour) }

	require.NoError(t, s.Activities().Create(ctx, activities.Record{ID: "s1", BabyID: "b-1", Kind: activities.KindSleep, StartedAt: t0.Add(time.Hour), Detail: activities.Sleep{}}))

	st, err := rep.CurrentStatus(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "sleeping", string(st.Status))

	_, err = rep.CurrentStatus(ctx, "missing")
	assert.ErrorIs(t, err, babies.ErrNotFound)

	_, ok, err := rep.LatestGrowth(ctx, "b-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func ptr[T any](v T) *T { return &v }
