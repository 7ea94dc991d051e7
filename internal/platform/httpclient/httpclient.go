// Package httpclient es el cliente JSON de los adapters que hablan con el
// backend hospedado. Traduce las respuestas de error a la taxonomía de errs.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"baby-care-tracker/internal/platform/errs"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBody = 1 << 20
)

var ErrNoBaseURL = errors.New("httpclient: base url required")

type Config struct {
	BaseURL string
	Timeout time.Duration

	// Header va en todos los requests (p.ej. apikey del backend).
	Header http.Header

	// Transport opcional, para tests.
	Transport http.RoundTripper
}

type Client struct {
	http   *http.Client
	base   *url.URL
	header http.Header
}

func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.ParseRequestURI(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := &http.Client{Timeout: timeout}
	if cfg.Transport != nil {
		hc.Transport = cfg.Transport
	}

	return &Client{http: hc, base: base, header: cfg.Header.Clone()}, nil
}

type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Header pisa los headers por defecto del cliente.
	Header http.Header

	// Body se manda como JSON; nil = sin body.
	Body any
}

// APIError es una respuesta no-2xx con el mensaje que mandó el backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "http %d", e.Status)
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

// Is permite errors.Is(err, errs.ErrX). 5xx y 429 son transitorios.
func (e *APIError) Is(target error) bool {
	switch target {
	case errs.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case errs.ErrNotFound:
		return e.Status == http.StatusNotFound
	case errs.ErrConflict:
		return e.Status == http.StatusConflict || e.alreadyExists()
	case errs.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case errs.ErrTransientNetwork:
		return e.Status >= 500 || e.Status == http.StatusTooManyRequests
	}
	return false
}

// El backend de auth contesta 422 cuando el email ya está registrado.
func (e *APIError) alreadyExists() bool {
	if e.Code == "user_already_exists" || e.Code == "email_exists" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "already registered")
}

// envelope cubre las dos formas de error del backend de auth:
// {"error","error_description"} y {"error_code","msg"}.
type envelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	ErrorCode   string `json:"error_code"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func apiError(status int, raw []byte) *APIError {
	e := &APIError{Status: status}

	var env envelope
	if json.Unmarshal(raw, &env) != nil {
		e.Message = strings.TrimSpace(string(raw))
		return e
	}
	e.Code = firstNonEmpty(env.ErrorCode, env.Error)
	e.Message = firstNonEmpty(env.Description, env.Msg, env.Message)
	return e
}

func (c *Client) Do(ctx context.Context, r Request, out any) error {
	u := c.base.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("httpclient: encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header = c.header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// cancelación del llamador: no es un problema de red
		if ctx.Err() != nil {
			return fmt.Errorf("httpclient: %s %s: %w", r.Method, r.Path, ctx.Err())
		}
		return fmt.Errorf("httpclient: %s %s: %w: %w", r.Method, r.Path, errs.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w: %w", errs.ErrTransientNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
