package auth

import "time"

// Claims representa la información extraída del token.
// TenantID queda vacío: la familia se resuelve aparte (ver session.Resolver).
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}

// Principal es la identidad autenticada que devuelve el backend de auth.
type Principal struct {
	ID       string
	Email    string
	Metadata map[string]string
}

// Session es el par de tokens vigente para un Principal.
type Session struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
	Principal    Principal `yaml:"principal"`
}

func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.Principal.ID == ""
}

// Expired reporta si el access token ya venció en now.
// Sin ExpiresAt se asume vigente y se delega en GetUser.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event es un cambio de estado de autenticación (propio o externo).
type Event struct {
	Type    EventType
	Session *Session
}
