package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"

	"github.com/google/uuid"
)

var ErrInvalidInput = fmt.Errorf("activity: %w", errs.ErrInvalidInput)

// BabyLookup valida que un bebé pertenezca a la familia (babies.Service).
type BabyLookup interface {
	Get(ctx context.Context, familyID, id string) (babies.Baby, error)
}

// Actor es quién opera y en qué familia.
type Actor struct {
	FamilyID    string
	CaregiverID string
}

type Service struct {
	repo      Repository
	babies    BabyLookup
	publisher Publisher
	log       logger.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithPublishTimeout acota la espera al publisher. El registro ya está
// guardado cuando se publica, así que vencer el plazo solo pierde el evento.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
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

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, babyLookup BabyLookup, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		babies:    babyLookup,
		publisher: NopPublisher(),
		log:       logger.Nop(),
		now:       time.Now,

		publishTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now expone el reloj del servicio (quick actions usan el mismo).
func (s *Service) Now() time.Time {
	return s.now()
}

type CreateInput struct {
	BabyID    string
	StartedAt time.Time // zero = ahora
	EndedAt   *time.Time
	Notes     string
	Detail    Detail
}

func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (Record, error) {
	if err := validActor(actor); err != nil {
		return Record{}, err
	}
	if in.Detail == nil {
		return Record{}, fmt.Errorf("%w: missing detail", ErrInvalidInput)
	}
	if _, err := s.babies.Get(ctx, actor.FamilyID, in.BabyID); err != nil {
		return Record{}, err
	}

	now := s.now()
	start := in.StartedAt
	if start.IsZero() {
		start = now
	}

	r := Record{
		ID:          uuid.NewString(),
		BabyID:      in.BabyID,
		CaregiverID: actor.CaregiverID,
		Kind:        in.Detail.Kind(),
		StartedAt:   start,
		EndedAt:     in.EndedAt,
		Notes:       strings.TrimSpace(in.Notes),
		Detail:      in.Detail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Record{}, err
	}

	s.publish(ctx, EventCreated, actor, r)
	return r, nil
}

type UpdateInput struct {
	// nil = no tocar
	StartedAt *time.Time
	EndedAt   *time.Time
	Notes     *string
	Detail    Detail
}

func (s *Service) Update(ctx context.Context, actor Actor, kind Kind, id string, in UpdateInput) (Record, error) {
	if err := validActor(actor); err != nil {
		return Record{}, err
	}
	r, err := s.Get(ctx, actor.FamilyID, kind, id)
	if err != nil {
		return Record{}, err
	}

	if in.StartedAt != nil {
		r.StartedAt = *in.StartedAt
	}
	if in.EndedAt != nil {
		end := *in.EndedAt
		r.EndedAt = &end
	}
	if in.Notes != nil {
		r.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Detail != nil {
		if in.Detail.Kind() != r.Kind {
			return Record{}, fmt.Errorf("%w: cannot change %s record into %s", ErrInvalidInput, r.Kind, in.Detail.Kind())
		}
		r.Detail = in.Detail
	}
	r.UpdatedAt = s.now()

	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return Record{}, err
	}

	s.publish(ctx, EventUpdated, actor, r)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, kind Kind, id string) error {
	if err := validActor(actor); err != nil {
		return err
	}
	r, err := s.Get(ctx, actor.FamilyID, kind, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, actor, r)
	return nil
}

// Get devuelve el registro solo si su bebé pertenece a familyID.
func (s *Service) Get(ctx context.Context, familyID string, kind Kind, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.babies.Get(ctx, familyID, r.BabyID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Record, error) {
	if strings.TrimSpace(f.FamilyID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, f)
}

// publish no falla la mutación: el registro ya está escrito.
func (s *Service) publish(ctx context.Context, t EventType, actor Actor, r Record) {
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	err := s.publisher.Publish(ctx, Event{
		Type:       t,
		FamilyID:   actor.FamilyID,
		ActorID:    actor.CaregiverID,
		Record:     r,
		OccurredAt: s.now(),
	})
	if err != nil {
		s.log.Warn("activity event publish failed", map[string]any{
			"event":     string(t),
			"record_id": r.ID,
			"kind":      string(r.Kind),
			"err":       err,
		})
	}
}

func validActor(a Actor) error {
	if strings.TrimSpace(a.FamilyID) == "" || strings.TrimSpace(a.CaregiverID) == "" {
		return fmt.Errorf("%w: actor requires family and caregiver", ErrInvalidInput)
	}
	return nil
}
