//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/domain/reports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("babycare"),
		postgrescontainer.WithUsername("babycare"),
		postgrescontainer.WithPassword("babycare"),
	)
	testcontainers.CleanupContainer(t, pg)
	require.NoError(t, err)

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	db, err := Open(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	contents, err := os.ReadFile(resolvePath(t, "../../../../db/postgres/migrations/0001_init.up.sql"))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func TestRepositories_FamilyScopeAndInProgress(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	fams := NewFamiliesRepo(db)
	cgs := NewCaregiversRepo(db)
	bbs := NewBabiesRepo(db)
	acts := NewActivitiesRepo(db)

	famID, otherFamID := uuid.NewString(), uuid.NewString()
	require.NoError(t, fams.Create(ctx, families.Family{ID: famID, Name: "Silva", Phone: "5511999990000", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, fams.Create(ctx, families.Family{ID: otherFamID, Name: "Otra", CreatedAt: now, UpdatedAt: now}))

	got, err := fams.GetByPhone(ctx, "5511999990000")
	require.NoError(t, err)
	assert.Equal(t, famID, got.ID)

	holder := caregivers.Caregiver{ID: uuid.NewString(), FamilyID: famID, Name: "Ana", Phone: "5511999990000", Email: "a@babybot.app", Relationship: caregivers.RelationshipGuardian, IsPrimary: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, cgs.Create(ctx, holder))

	dupHolder := holder
	dupHolder.ID = uuid.NewString()
	dupHolder.Email = "b@babybot.app"
	assert.ErrorIs(t, cgs.Create(ctx, dupHolder), caregivers.ErrPhoneTaken)

	babyID := uuid.NewString()
	require.NoError(t, bbs.Create(ctx, babies.Baby{ID: babyID, FamilyID: famID, Name: "Lia", BirthDate: now.AddDate(0, -2, 0).Truncate(24 * time.Hour), IsActive: true, CreatedAt: now, UpdatedAt: now}))

	sleep := activities.Record{ID: uuid.NewString(), BabyID: babyID, CaregiverID: holder.ID, Kind: activities.KindSleep, StartedAt: now.Add(-time.Hour), Detail: activities.Sleep{Location: activities.SleepCrib}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, acts.Create(ctx, sleep))

	second := sleep
	second.ID = uuid.NewString()
	assert.ErrorIs(t, acts.Create(ctx, second), activities.ErrInProgress)

	breast := activities.Record{ID: uuid.NewString(), BabyID: babyID, Kind: activities.KindFeeding, StartedAt: now.Add(-30 * time.Minute), Detail: activities.Feeding{Type: activities.FeedingBreast, Side: activities.SideLeft}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, acts.Create(ctx, breast))

	open, err := acts.List(ctx, activities.ListFilter{FamilyID: famID, InProgressOnly: true})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	other, err := acts.List(ctx, activities.ListFilter{FamilyID: otherFamID})
	require.NoError(t, err)
	assert.Empty(t, other)

	end := now
	sleep.EndedAt = &end
	require.NoError(t, acts.Update(ctx, sleep))

	stored, err := acts.GetByID(ctx, activities.KindSleep, sleep.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, activities.Sleep{Location: activities.SleepCrib}, stored.Detail)

	_, err = acts.GetByID(ctx, activities.KindSleep, "not-a-uuid")
	assert.ErrorIs(t, err, activities.ErrNotFound)
}

func TestReporter_Functions(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	famID, babyID := uuid.NewString(), uuid.NewString()
	birth := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, NewFamiliesRepo(db).Create(ctx, families.Family{ID: famID, Name: "Silva", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, NewBabiesRepo(db).Create(ctx, babies.Baby{ID: babyID, FamilyID: famID, Name: "Lia", BirthDate: birth, IsActive: true, CreatedAt: now, UpdatedAt: now}))

	acts := NewActivitiesRepo(db)
	h := func(v float64) *float64 { return &v }
	for i, w := range []int{3300, 4200, 5100} {
		require.NoError(t, acts.Create(ctx, activities.Record{
			ID: uuid.NewString(), BabyID: babyID, Kind: activities.KindGrowth,
			StartedAt: birth.AddDate(0, 0, 30*i),
			Detail:    activities.Growth{WeightGrams: w, HeightCM: h(50 + 3.5*float64(i))},
			CreatedAt: now, UpdatedAt: now,
		}))
	}
	require.NoError(t, acts.Create(ctx, activities.Record{
		ID: uuid.NewString(), BabyID: babyID, Kind: activities.KindSleep,
		StartedAt: now.Add(-20 * time.Minute), Detail: activities.Sleep{},
		CreatedAt: now, UpdatedAt: now,
	}))

	rep := NewReporter(db)

	report, err := rep.GrowthReport(ctx, babyID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalMeasurements)
	assert.Equal(t, 1800, report.WeightGainGrams)
	require.NotNil(t, report.AverageWeightGainPerMonth)
	assert.InDelta(t, 900, *report.AverageWeightGainPerMonth, 0.1)
	require.Len(t, report.Measurements, 3)
	assert.Equal(t, 60, report.Measurements[2].AgeDays)

	latest, ok, err := rep.LatestGrowth(ctx, babyID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5100, latest.WeightGrams)

	status, err := rep.CurrentStatus(ctx, babyID)
	require.NoError(t, err)
	assert.Equal(t, reports.StatusSleeping, status.Status)
	assert.Nil(t, status.HoursSinceLastFeeding)

	_, err = rep.CurrentStatus(ctx, uuid.NewString())
	assert.ErrorIs(t, err, babies.ErrNotFound)
}
