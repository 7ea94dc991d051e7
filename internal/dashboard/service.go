// Package dashboard arma las vistas del panel: resumen de la familia,
// listas de actividades y estadísticas de pañales.
package dashboard

import (
	"context"
	"math"
	"sync"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/reports"
	"baby-care-tracker/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

type BabySource interface {
	ListActive(ctx context.Context, familyID string) ([]babies.Baby, error)
}

type CaregiverSource interface {
	List(ctx context.Context, familyID string) ([]caregivers.Caregiver, error)
}

type ActivitySource interface {
	List(ctx context.Context, f activities.ListFilter) ([]activities.Record, error)
}

type ReportSource interface {
	DailySleep(ctx context.Context, familyID, babyID string, day time.Time) (reports.DailySleep, error)
	CurrentStatus(ctx context.Context, familyID, babyID string) (reports.CurrentStatus, error)
	LatestGrowth(ctx context.Context, familyID, babyID string) (reports.GrowthPoint, bool, error)
}

// perBabyConcurrency limita las consultas simultáneas del resumen.
const perBabyConcurrency = 4

type Service struct {
	babies     BabySource
	caregivers CaregiverSource
	activities ActivitySource
	reports    ReportSource
	log        logger.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(b BabySource, c CaregiverSource, a ActivitySource, r ReportSource, opts ...Option) *Service {
	s := &Service{
		babies:     b,
		caregivers: c,
		activities: a,
		reports:    r,
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview devuelve los bebés activos con su estado y los totales del día.
// Un reporte que falla para un bebé deja su tarjeta degradada, no el resumen.
func (s *Service) Overview(ctx context.Context, familyID string) (Overview, error) {
	now := s.now()
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	list, err := s.babies.ListActive(ctx, familyID)
	if err != nil {
		return Overview{}, err
	}

	var (
		cgs   []caregivers.Caregiver
		today []activities.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cgs, err = s.caregivers.List(gctx, familyID)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.activities.List(gctx, activities.ListFilter{
			FamilyID: familyID,
			Kinds:    []activities.Kind{activities.KindFeeding, activities.KindWalk},
			From:     &dayStart,
			To:       &dayEnd,
		})
		return err
	})

	cards := make([]BabyCard, len(list))
	var cardsWG sync.WaitGroup
	cardsWG.Add(1)
	go func() {
		defer cardsWG.Done()
		s.fillCards(ctx, familyID, list, cards, now)
	}()

	err = g.Wait()
	cardsWG.Wait()
	if err != nil {
		return Overview{}, err
	}

	totals := Totals{Babies: len(list), Caregivers: len(cgs)}
	for _, r := range today {
		switch r.Kind {
		case activities.KindFeeding:
			totals.FeedingsToday++
		case activities.KindWalk:
			totals.WalksToday++
		}
	}
	sleepMinutes := 0
	for _, c := range cards {
		sleepMinutes += c.SleepMinutesToday
	}
	totals.SleepHoursToday = int(math.Round(float64(sleepMinutes) / 60))

	return Overview{Babies: cards, Totals: totals}, nil
}

func (s *Service) fillCards(ctx context.Context, familyID string, list []babies.Baby, cards []BabyCard, now time.Time) {
	var g errgroup.Group
	g.SetLimit(perBabyConcurrency)

	for i, b := range list {
		age := babies.AgeAt(b.BirthDate, now)
		cards[i] = BabyCard{
			ID:        b.ID,
			Name:      b.Name,
			BirthDate: b.BirthDate,
			Gender:    string(b.Gender),
			AgeDays:   age.Days,
			AgeLabel:  age.String(),
		}

		g.Go(func() error {
			card := &cards[i]
			fail := func(report string, err error) {
				card.Degraded = true
				s.log.Warn("baby report failed", map[string]any{
					"baby_id": b.ID,
					"report":  report,
					"error":   err,
				})
			}

			if st, err := s.reports.CurrentStatus(ctx, familyID, b.ID); err != nil {
				fail("current_status", err)
			} else {
				card.Status = &st
			}
			if gp, ok, err := s.reports.LatestGrowth(ctx, familyID, b.ID); err != nil {
				fail("latest_growth", err)
			} else if ok {
				card.LatestGrowth = &gp
			}
			if ds, err := s.reports.DailySleep(ctx, familyID, b.ID, now); err != nil {
				fail("daily_sleep", err)
			} else {
				card.SleepMinutesToday = ds.TotalMinutes
			}
			return nil
		})
	}
	_ = g.Wait()
}

type ListQuery struct {
	Kind   activities.Kind
	BabyID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Activities lista registros de un tipo con nombres de bebé y cuidador.
func (s *Service) Activities(ctx context.Context, familyID string, q ListQuery) ([]ActivityItem, error) {
	f := activities.ListFilter{
		FamilyID: familyID,
		From:     q.From,
		To:       q.To,
		Limit:    q.Limit,
	}
	if q.Kind != "" {
		f.Kinds = []activities.Kind{q.Kind}
	}
	if q.BabyID != "" {
		f.BabyIDs = []string{q.BabyID}
	}

	recs, babyNames, cgNames, err := s.listWithNames(ctx, f)
	if err != nil {
		return nil, err
	}
	return enrich(recs, babyNames, cgNames), nil
}

// listWithNames trae los registros y los nombres en paralelo.
func (s *Service) listWithNames(ctx context.Context, f activities.ListFilter) (recs []activities.Record, babyNames, cgNames map[string]string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = s.activities.List(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		babyNames, err = s.babyNames(gctx, f.FamilyID)
		return err
	})
	g.Go(func() error {
		var err error
		cgNames, err = s.caregiverNames(gctx, f.FamilyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return recs, babyNames, cgNames, nil
}

func enrich(recs []activities.Record, babyNames, cgNames map[string]string) []ActivityItem {
	out := make([]ActivityItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, ActivityItem{
			RecordResponse: activities.ToResponse(r),
			BabyName:       babyNames[r.BabyID],
			CaregiverName:  cgNames[r.CaregiverID],
		})
	}
	return out
}

func (s *Service) babyNames(ctx context.Context, familyID string) (map[string]string, error) {
	list, err := s.babies.ListActive(ctx, familyID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, b := range list {
		m[b.ID] = b.Name
	}
	return m, nil
}

func (s *Service) caregiverNames(ctx context.Context, familyID string) (map[string]string, error) {
	list, err := s.caregivers.List(ctx, familyID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, c := range list {
		m[c.ID] = c.Name
	}
	return m, nil
}

// recentDiapers es cuántos registros trae la vista de pañales.
const recentDiapers = 20

// Diapers arma la vista de pañales: stats de hoy, gráfico y últimos registros.
func (s *Service) Diapers(ctx context.Context, familyID, babyID string, period Period) (DiaperView, error) {
	now := s.now()
	from := startOfDay(now).AddDate(0, 0, -29)

	f := activities.ListFilter{
		FamilyID: familyID,
		Kinds:    []activities.Kind{activities.KindDiaper},
		From:     &from,
	}
	if babyID != "" {
		f.BabyIDs = []string{babyID}
	}
	recs, babyNames, cgNames, err := s.listWithNames(ctx, f)
	if err != nil {
		return DiaperView{}, err
	}

	recent := recs
	if len(recent) > recentDiapers {
		recent = recent[:recentDiapers]
	}
	return DiaperView{
		Today:  DiaperTodayStats(recs, now),
		Period: period,
		Chart:  DiaperChart(recs, period, now),
		Recent: enrich(recent, babyNames, cgNames),
	}, nil
}
