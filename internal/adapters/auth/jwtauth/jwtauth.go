// Package jwtauth emite y valida access tokens HS256 con el secreto
// compartido del backend de auth.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/errs"
	"baby-care-tracker/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	Secret string
	Issuer string
}

var (
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", errs.ErrUnauthorized)
	ErrInvalidToken = fmt.Errorf("%w: invalid bearer token", errs.ErrUnauthorized)
)

// Token son los claims normalizados de un access token.
type Token struct {
	ID        string
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Issue firma un token para p válido por ttl desde now.
func Issue(cfg Config, p auth.Principal, ttl time.Duration, now time.Time) (string, Token, error) {
	tok := Token{
		ID:        uuid.NewString(),
		Subject:   p.ID,
		Email:     p.Email,
		ExpiresAt: now.Add(ttl),
	}
	claims := jwt.MapClaims{
		"jti":   tok.ID,
		"sub":   p.ID,
		"email": p.Email,
		"iss":   cfg.Issuer,
		"iat":   now.Unix(),
		"exp":   tok.ExpiresAt.Unix(),
		"role":  "authenticated",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", Token{}, fmt.Errorf("jwtauth: sign: %w", err)
	}
	return signed, tok, nil
}

// Parse valida firma, emisor y vencimiento.
func Parse(token string, cfg Config) (Token, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Token{}, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Token{}, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return Token{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	jti, _ := claims["jti"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Token{}, ErrInvalidToken
	}

	return Token{ID: jti, Subject: subject, Email: email, ExpiresAt: exp.Time}, nil
}

// Verifier implementa auth.AuthVerifier validando localmente.
type Verifier struct {
	cfg Config
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("jwtauth: secret required")
	}
	return &Verifier{cfg: cfg}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	t, err := Parse(token, v.cfg)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{UserID: t.Subject, Email: t.Email}, nil
}
