// Package quickaction implementa los botones de un toque: iniciar/detener
// actividades temporizadas y registrar pañales rápidos.
package quickaction

import (
	"context"
	"fmt"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/observability"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"
)

var (
	ErrNotLoaded      = fmt.Errorf("%w: record is not in the loaded list, refresh and try again", errs.ErrNotFound)
	ErrAlreadyStopped = fmt.Errorf("%w: activity already finished", errs.ErrConflict)
	ErrNeedsFullForm  = fmt.Errorf("%w: solid diaper requires the full form", errs.ErrInvalidInput)
	ErrNotTimed       = fmt.Errorf("%w: record has no start/stop", errs.ErrInvalidInput)
)

// InProgressError indica que ya hay una actividad igual en curso para el bebé.
type InProgressError struct {
	Activity activities.TimedActivity
	RecordID string
}

func (e *InProgressError) Error() string {
	return fmt.Sprintf("%s already in progress for this baby, stop it first", e.Activity)
}

func (e *InProgressError) Unwrap() error { return activities.ErrInProgress }

// Activities es lo que el mutator usa de activities.Service.
type Activities interface {
	Create(ctx context.Context, actor activities.Actor, in activities.CreateInput) (activities.Record, error)
	Update(ctx context.Context, actor activities.Actor, kind activities.Kind, id string, in activities.UpdateInput) (activities.Record, error)
	Now() time.Time
}

type Mutator struct {
	svc     Activities
	refresh func()
	log     logger.Logger
}

type Option func(*Mutator)

// WithRefresh se llama tras cada mutación exitosa (típicamente Loader.Retry).
func WithRefresh(fn func()) Option {
	return func(m *Mutator) { m.refresh = fn }
}

func WithLogger(l logger.Logger) Option {
	return func(m *Mutator) {
		if l != nil {
			m.log = l
		}
	}
}

func New(svc Activities, opts ...Option) *Mutator {
	m := &Mutator{
		svc: svc,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindInProgress busca en loaded un registro en curso de la actividad para el bebé.
func FindInProgress(loaded []activities.Record, babyID string, a activities.TimedActivity) (activities.Record, bool) {
	for _, r := range loaded {
		if r.BabyID == babyID && r.EndedAt == nil && a.Matches(r) {
			return r, true
		}
	}
	return activities.Record{}, false
}

// Start valida contra los registros ya cargados y luego inserta con fin nulo.
// El repositorio vuelve a chequear: dos dispositivos pueden cruzarse.
func (m *Mutator) Start(ctx context.Context, actor activities.Actor, loaded []activities.Record, babyID string, a activities.TimedActivity) (rec activities.Record, err error) {
	defer func() { m.done("start", string(a), err) }()

	if _, ok := activities.ParseTimedActivity(string(a)); !ok {
		return activities.Record{}, fmt.Errorf("%w: unknown activity %q", errs.ErrInvalidInput, a)
	}
	if open, ok := FindInProgress(loaded, babyID, a); ok {
		return activities.Record{}, &InProgressError{Activity: a, RecordID: open.ID}
	}

	now := m.svc.Now()
	rec, err = m.svc.Create(ctx, actor, activities.CreateInput{
		BabyID:    babyID,
		StartedAt: now,
		Detail:    startDetail(a),
	})
	if err != nil {
		if errs.Classify(err) == errs.KindConflict {
			return activities.Record{}, &InProgressError{Activity: a}
		}
		return activities.Record{}, err
	}
	return rec, nil
}

func startDetail(a activities.TimedActivity) activities.Detail {
	switch a {
	case activities.TimedSleep:
		return activities.Sleep{}
	case activities.TimedWalk:
		return activities.Walk{}
	default:
		return activities.Feeding{Type: activities.FeedingBreast, Side: activities.SideLeft}
	}
}

type StopOptions struct {
	// Side actualiza el lado en amamantamientos. Vacío = no tocar.
	Side activities.BreastSide
}

// Stop cierra un registro en curso con fin = ahora (nunca antes del inicio).
func (m *Mutator) Stop(ctx context.Context, actor activities.Actor, loaded []activities.Record, recordID string, opts StopOptions) (rec activities.Record, err error) {
	activity := "unknown"
	defer func() { m.done("stop", activity, err) }()

	var (
		target activities.Record
		found  bool
	)
	for _, r := range loaded {
		if r.ID == recordID {
			target, found = r, true
			break
		}
	}
	if !found {
		return activities.Record{}, ErrNotLoaded
	}

	a, ok := activities.TimedActivityOf(target)
	if !ok {
		return activities.Record{}, ErrNotTimed
	}
	activity = string(a)
	if target.EndedAt != nil {
		return activities.Record{}, ErrAlreadyStopped
	}

	// con el reloj atrasado el fin no puede quedar antes del inicio
	end := m.svc.Now()
	if end.Before(target.StartedAt) {
		end = target.StartedAt
	}
	in := activities.UpdateInput{EndedAt: &end}
	if a == activities.TimedBreastfeeding && opts.Side != "" {
		side, ok := activities.ParseBreastSide(string(opts.Side))
		if !ok {
			return activities.Record{}, fmt.Errorf("%w: unknown side %q", errs.ErrInvalidInput, opts.Side)
		}
		f := target.Detail.(activities.Feeding)
		f.Side = side
		in.Detail = f
	}

	return m.svc.Update(ctx, actor, target.Kind, target.ID, in)
}

// QuickDiaper registra el pañal con la intensidad por defecto del tipo.
// solid no se escribe: devuelve ErrNeedsFullForm para abrir el formulario.
func (m *Mutator) QuickDiaper(ctx context.Context, actor activities.Actor, babyID string, t activities.DiaperType) (rec activities.Record, err error) {
	defer func() { m.done("diaper", string(t), err) }()

	dt, ok := activities.ParseDiaperType(string(t))
	if !ok {
		return activities.Record{}, fmt.Errorf("%w: unknown diaper type %q", errs.ErrInvalidInput, t)
	}
	smell, ok := activities.DefaultSmellIntensity(dt)
	if !ok {
		return activities.Record{}, ErrNeedsFullForm
	}

	return m.svc.Create(ctx, actor, activities.CreateInput{
		BabyID:    babyID,
		StartedAt: m.svc.Now(),
		Detail:    activities.Diaper{Type: dt, SmellIntensity: smell},
	})
}

func (m *Mutator) done(action, activity string, err error) {
	observability.RecordQuickAction(action, activity, err)
	if err != nil {
		m.log.Info("quick action rejected", map[string]any{
			"action":   action,
			"activity": activity,
			"error":    err,
		})
		return
	}
	if m.refresh != nil {
		m.refresh()
	}
}
