package reports

import (
	"context"
	"time"

	"baby-care-tracker/internal/domain/babies"
)

type BabyLookup interface {
	Get(ctx context.Context, familyID, id string) (babies.Baby, error)
}

// Service aplica el alcance por familia antes de llamar al Reporter.
type Service struct {
	reporter Reporter
	babies   BabyLookup
	now      func() time.Time
}

func NewService(reporter Reporter, babyLookup BabyLookup) *Service {
	return &Service{
		reporter: reporter,
		babies:   babyLookup,
		now:      time.Now,
	}
}

func (s *Service) DailySleep(ctx context.Context, familyID, babyID string, day time.Time) (DailySleep, error) {
	if _, err := s.babies.Get(ctx, familyID, babyID); err != nil {
		return DailySleep{}, err
	}
	return s.reporter.DailySleep(ctx, babyID, s.dayOrToday(day))
}

func (s *Service) DailyFeeding(ctx context.Context, familyID, babyID string, day time.Time) (DailyFeeding, error) {
	if _, err := s.babies.Get(ctx, familyID, babyID); err != nil {
		return DailyFeeding{}, err
	}
	return s.reporter.DailyFeeding(ctx, babyID, s.dayOrToday(day))
}

func (s *Service) CurrentStatus(ctx context.Context, familyID, babyID string) (CurrentStatus, error) {
	if _, err := s.babies.Get(ctx, familyID, babyID); err != nil {
		return CurrentStatus{}, err
	}
	return s.reporter.CurrentStatus(ctx, babyID)
}

func (s *Service) LatestGrowth(ctx context.Context, familyID, babyID string) (GrowthPoint, bool, error) {
	if _, err := s.babies.Get(ctx, familyID, babyID); err != nil {
		return GrowthPoint{}, false, err
	}
	return s.reporter.LatestGrowth(ctx, babyID)
}

func (s *Service) GrowthReport(ctx context.Context, familyID, babyID string, from, to *time.Time) (GrowthReport, error) {
	if _, err := s.babies.Get(ctx, familyID, babyID); err != nil {
		return GrowthReport{}, err
	}
	return s.reporter.GrowthReport(ctx, babyID, from, to)
}

func (s *Service) dayOrToday(day time.Time) time.Time {
	if day.IsZero() {
		return s.now()
	}
	return day
}
