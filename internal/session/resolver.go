package session

import (
	"context"
	"time"

	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/observability"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"
)

type CaregiverLookup interface {
	GetByID(ctx context.Context, id string) (caregivers.Caregiver, error)
}

type FamilyLookup interface {
	GetByID(ctx context.Context, id string) (families.Family, error)
}

// Resolution es el resultado de resolver un principal. Ambos campos pueden
// ser nil: sin perfil, o perfil sin familia (modo degradado).
// Failed indica que alguna búsqueda no terminó; los nil no son definitivos.
type Resolution struct {
	Caregiver *caregivers.Caregiver
	Family    *families.Family
	Failed    bool
}

func (r Resolution) CaregiverID() string {
	if r.Caregiver == nil {
		return ""
	}
	return r.Caregiver.ID
}

func (r Resolution) FamilyID() string {
	if r.Family == nil {
		return ""
	}
	return r.Family.ID
}

type Resolver struct {
	caregivers CaregiverLookup
	families   FamilyLookup
	retries    int
	delay      time.Duration
	log        logger.Logger
}

type ResolverOption func(*Resolver)

// WithRetries fija cuántos reintentos extra se hacen ante errores de red.
func WithRetries(n int) ResolverOption {
	return func(r *Resolver) {
		if n >= 0 {
			r.retries = n
		}
	}
}

func WithRetryDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d >= 0 {
			r.delay = d
		}
	}
}

func WithResolverLogger(l logger.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

func NewResolver(cg CaregiverLookup, fam FamilyLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		caregivers: cg,
		families:   fam,
		retries:    2,
		delay:      time.Second,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve nunca falla: los errores se registran y el resultado queda parcial.
func (r *Resolver) Resolve(ctx context.Context, principalID string) Resolution {
	if principalID == "" {
		return Resolution{}
	}

	var (
		c   caregivers.Caregiver
		err error
	)
	for attempt := 0; ; attempt++ {
		c, err = r.caregivers.GetByID(ctx, principalID)
		if err == nil || !errs.IsTransient(err) || attempt >= r.retries {
			break
		}

		observability.RecordResolverRetry()
		r.log.Warn("caregiver lookup failed, retrying", map[string]any{
			"principal_id": principalID,
			"attempt":      attempt + 1,
			"error":        err,
		})

		t := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return Resolution{Failed: true}
		case <-t.C:
		}
	}
	if err != nil {
		if errs.Classify(err) == errs.KindNotFound {
			return Resolution{}
		}
		r.log.Error("caregiver lookup failed", map[string]any{"principal_id": principalID, "error": err})
		return Resolution{Failed: true}
	}

	res := Resolution{Caregiver: &c}
	if c.FamilyID == "" {
		return res
	}

	f, err := r.families.GetByID(ctx, c.FamilyID)
	if err != nil {
		r.log.Error("family lookup failed", map[string]any{
			"principal_id": principalID,
			"family_id":    c.FamilyID,
			"error":        err,
		})
		res.Failed = errs.Classify(err) != errs.KindNotFound
		return res
	}
	res.Family = &f
	return res
}
