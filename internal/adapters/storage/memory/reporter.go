package memory

import (
	"context"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/reports"
)

type reporter struct {
	s   *Store
	now func() time.Time
}

// Reporter calcula los agregados en proceso con los builders de reports.
func (s *Store) Reporter() reports.Reporter {
	return &reporter{s: s, now: time.Now}
}

func (r *reporter) babyRecords(babyID string, kinds ...activities.Kind) (babies.Baby, []activities.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.babies[babyID]
	if !ok {
		return babies.Baby{}, nil, babies.ErrNotFound
	}
	recs := r.s.listLocked(activities.ListFilter{
		FamilyID: b.FamilyID,
		BabyIDs:  []string{babyID},
		Kinds:    kinds,
	})
	return b, recs, nil
}

func (r *reporter) DailySleep(ctx context.Context, babyID string, day time.Time) (reports.DailySleep, error) {
	_, recs, err := r.babyRecords(babyID, activities.KindSleep)
	if err != nil {
		return reports.DailySleep{}, err
	}
	return reports.BuildDailySleep(babyID, day, recs), nil
}

func (r *reporter) DailyFeeding(ctx context.Context, babyID string, day time.Time) (reports.DailyFeeding, error) {
	_, recs, err := r.babyRecords(babyID, activities.KindFeeding)
	if err != nil {
		return reports.DailyFeeding{}, err
	}
	return reports.BuildDailyFeeding(babyID, day, recs), nil
}

func (r *reporter) CurrentStatus(ctx context.Context, babyID string) (reports.CurrentStatus, error) {
	b, recs, err := r.babyRecords(babyID, activities.KindSleep, activities.KindWalk, activities.KindFeeding)
	if err != nil {
		return reports.CurrentStatus{}, err
	}
	return reports.BuildCurrentStatus(b, recs, r.now()), nil
}

func (r *reporter) LatestGrowth(ctx context.Context, babyID string) (reports.GrowthPoint, bool, error) {
	b, recs, err := r.babyRecords(babyID, activities.KindGrowth)
	if err != nil {
		return reports.GrowthPoint{}, false, err
	}
	p, ok := reports.LatestGrowthOf(b, recs)
	return p, ok, nil
}

func (r *reporter) GrowthReport(ctx context.Context, babyID string, from, to *time.Time) (reports.GrowthReport, error) {
	b, recs, err := r.babyRecords(babyID, activities.KindGrowth)
	if err != nil {
		return reports.GrowthReport{}, err
	}
	return reports.BuildGrowthReport(b, recs, from, to), nil
}
