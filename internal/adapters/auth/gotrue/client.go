// Package gotrue habla con un backend de auth compatible con GoTrue
// (auth hospedado con login por email y contraseña). Implementa auth.Provider.
package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/httpclient"
	"baby-care-tracker/internal/ports/auth"
)

var (
	ErrNotConfigured   = errors.New("gotrue client not configured")
	ErrMissingUser     = errors.New("gotrue response missing user id")
	ErrServiceKeyUnset = errors.New("gotrue admin operation requires a service key")
)

// Config del cliente. APIKey es la clave pública (anon); ServiceKey solo se
// usa para la operación administrativa de borrado.
type Config struct {
	BaseURL    string
	APIKey     string
	ServiceKey string
	Timeout    time.Duration
}

type Client struct {
	http       *httpclient.Client
	serviceKey string
	now        func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Header:  http.Header{"Apikey": {apiKey}},
	})
	if err != nil {
		return nil, err
	}
	return &Client{
		http:       hc,
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
		now:        time.Now,
	}, nil
}

type userPayload struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *userPayload `json:"user"`

	// signup sin confirmación automática devuelve el usuario plano
	userPayload
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	var out sessionPayload
	err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/token",
		Query:  url.Values{"grant_type": {"password"}},
		Body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return auth.Session{}, fmt.Errorf("gotrue sign in: %w", err)
	}
	return c.toSession(out)
}

func (c *Client) SignUp(ctx context.Context, in auth.SignUpInput) (auth.Session, error) {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data":     in.Metadata,
	}
	var out sessionPayload
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/v1/signup", Body: body}, &out); err != nil {
		return auth.Session{}, fmt.Errorf("gotrue sign up: %w", err)
	}
	return c.toSession(out)
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/v1/logout", Header: bearer(accessToken)}, nil); err != nil {
		return fmt.Errorf("gotrue sign out: %w", err)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (auth.Principal, error) {
	var out userPayload
	if err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/auth/v1/user", Header: bearer(accessToken)}, &out); err != nil {
		return auth.Principal{}, fmt.Errorf("gotrue get user: %w", err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return auth.Principal{}, ErrMissingUser
	}
	return toPrincipal(out), nil
}

func (c *Client) DeleteUser(ctx context.Context, principalID string) error {
	if c.serviceKey == "" {
		return ErrServiceKeyUnset
	}
	h := bearer(c.serviceKey)
	h.Set("apikey", c.serviceKey)
	req := httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/auth/v1/admin/users/" + url.PathEscape(principalID),
		Header: h,
	}
	if err := c.http.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("gotrue delete user: %w", err)
	}
	return nil
}

func (c *Client) toSession(p sessionPayload) (auth.Session, error) {
	user := p.User
	if user == nil {
		user = &p.userPayload
	}
	if strings.TrimSpace(user.ID) == "" {
		return auth.Session{}, ErrMissingUser
	}

	s := auth.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		Principal:    toPrincipal(*user),
	}
	switch {
	case p.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(p.ExpiresAt, 0)
	case p.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(p.ExpiresIn) * time.Second)
	}
	return s, nil
}

func toPrincipal(u userPayload) auth.Principal {
	meta := make(map[string]string, len(u.UserMetadata))
	for k, v := range u.UserMetadata {
		if s, ok := v.(string); ok {
			meta[k] = s
		} else if v != nil {
			meta[k] = fmt.Sprint(v)
		}
	}
	return auth.Principal{
		ID:       strings.TrimSpace(u.ID),
		Email:    strings.TrimSpace(u.Email),
		Metadata: meta,
	}
}
