// Package session mantiene el estado de autenticación del cliente y la
// resolución principal → (cuidador, familia).
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/observability"
	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/platform/logger"
	"baby-care-tracker/internal/platform/phone"
	"baby-care-tracker/internal/ports/auth"

	"github.com/google/uuid"
)

// EmailDomain es el dominio de los emails sintéticos con los que se
// registran los teléfonos en el backend de auth.
const EmailDomain = "babybot.app"

var (
	ErrPhoneNotFound = fmt.Errorf("%w: phone not registered, check the number or sign up", errs.ErrNotFound)
	ErrLegacyAccount = fmt.Errorf("%w: legacy account detected, contact support for migration", errs.ErrLegacyAccount)
	ErrPhoneTaken    = fmt.Errorf("%w: phone already registered, sign in or use another number", errs.ErrConflict)
	ErrInvalidInput  = fmt.Errorf("session: %w", errs.ErrInvalidInput)
)

type CaregiverDirectory interface {
	GetByPhone(ctx context.Context, phone string) (caregivers.Caregiver, error)
	CreateAccountHolder(ctx context.Context, in caregivers.AccountHolderInput) (caregivers.Caregiver, error)
}

type FamilyDirectory interface {
	FindOrCreateByPhone(ctx context.Context, phone, name string) (families.Family, bool, error)
}

// Accounts es la parte sin estado del login por teléfono. La usan tanto el
// Store del cliente como el API.
type Accounts struct {
	provider   auth.Provider
	caregivers CaregiverDirectory
	families   FamilyDirectory
	log        logger.Logger
}

func NewAccounts(provider auth.Provider, cg CaregiverDirectory, fam FamilyDirectory, log logger.Logger) *Accounts {
	if log == nil {
		log = logger.Nop()
	}
	return &Accounts{
		provider:   provider,
		caregivers: cg,
		families:   fam,
		log:        log,
	}
}

// SignInWithPhone busca el perfil por teléfono y autentica con su email derivado.
// Si el teléfono no existe no se llama al backend de auth.
func (a *Accounts) SignInWithPhone(ctx context.Context, rawPhone, password string) (s auth.Session, err error) {
	defer func() { observability.RecordAuth("sign_in", err) }()

	p := phone.Normalize(rawPhone)
	if p == "" || password == "" {
		return auth.Session{}, fmt.Errorf("%w: phone and password are required", ErrInvalidInput)
	}

	c, err := a.caregivers.GetByPhone(ctx, p)
	if errors.Is(err, errs.ErrNotFound) {
		return auth.Session{}, ErrPhoneNotFound
	}
	if err != nil {
		return auth.Session{}, err
	}
	if !c.HasLoginEmail() {
		return auth.Session{}, ErrLegacyAccount
	}

	return a.provider.SignInWithPassword(ctx, c.Email, password)
}

type SignUpInput struct {
	Phone      string
	Password   string
	Name       string
	FamilyName string
}

type SignUpResult struct {
	// Session.AccessToken vacío si el backend exige confirmación.
	Session   auth.Session
	Caregiver caregivers.Caregiver
	Family    families.Family
}

// SignUpWithPhone crea (o reutiliza) la familia, el Principal y el perfil.
// Si el perfil falla, el Principal se borra y se devuelve el error del perfil.
func (a *Accounts) SignUpWithPhone(ctx context.Context, in SignUpInput) (res SignUpResult, err error) {
	defer func() { observability.RecordAuth("sign_up", err) }()

	p := phone.Normalize(in.Phone)
	name := strings.TrimSpace(in.Name)
	familyName := strings.TrimSpace(in.FamilyName)
	if !phone.Valid(p) || in.Password == "" || name == "" || familyName == "" {
		return SignUpResult{}, fmt.Errorf("%w: phone, password, name and family name are required", ErrInvalidInput)
	}

	if _, err := a.caregivers.GetByPhone(ctx, p); err == nil {
		return SignUpResult{}, ErrPhoneTaken
	} else if !errors.Is(err, errs.ErrNotFound) {
		return SignUpResult{}, err
	}

	fam, created, err := a.families.FindOrCreateByPhone(ctx, p, familyName)
	if err != nil {
		return SignUpResult{}, err
	}

	email := uuid.NewString() + "@" + EmailDomain
	sess, err := a.provider.SignUp(ctx, auth.SignUpInput{
		Email:    email,
		Password: in.Password,
		Metadata: map[string]string{"name": name, "phone": p},
	})
	if err != nil {
		return SignUpResult{}, err
	}
	if sess.Principal.ID == "" {
		return SignUpResult{}, errors.New("session: auth backend returned no principal")
	}

	c, err := a.caregivers.CreateAccountHolder(ctx, caregivers.AccountHolderInput{
		PrincipalID: sess.Principal.ID,
		FamilyID:    fam.ID,
		Name:        name,
		Phone:       p,
		Email:       email,
	})
	if err != nil {
		a.rollbackPrincipal(ctx, sess.Principal.ID)
		return SignUpResult{}, err
	}

	a.log.Info("account created", map[string]any{
		"principal_id":   sess.Principal.ID,
		"family_id":      fam.ID,
		"family_created": created,
	})
	return SignUpResult{Session: sess, Caregiver: c, Family: fam}, nil
}

func (a *Accounts) rollbackPrincipal(ctx context.Context, principalID string) {
	observability.RecordSignUpRollback()
	if err := a.provider.DeleteUser(context.WithoutCancel(ctx), principalID); err != nil {
		a.log.Error("sign up rollback failed", map[string]any{
			"principal_id": principalID,
			"error":        err,
		})
		return
	}
	a.log.Warn("principal deleted after profile failure", map[string]any{"principal_id": principalID})
}

// SignOut revoca el token en el backend. Un token ya vencido no es error.
func (a *Accounts) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	return a.provider.SignOut(ctx, accessToken)
}
