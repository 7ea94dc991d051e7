package auth

import "context"

// SignUpInput son los datos mínimos para crear un Principal.
type SignUpInput struct {
	Email    string
	Password string
	Metadata map[string]string
}

// Provider es el subsistema de autenticación externo.
// Solo entiende identificadores tipo email; el login por teléfono se arma arriba.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)

	// SignUp crea el Principal. Si el backend abre sesión en el acto,
	// Session.AccessToken viene seteado; si no, solo Principal.
	SignUp(ctx context.Context, in SignUpInput) (Session, error)

	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (Principal, error)

	// DeleteUser es una operación administrativa (compensación del sign-up).
	DeleteUser(ctx context.Context, principalID string) error
}

// EventSource es opcional: backends que notifican cambios de sesión
// hechos fuera de este proceso (otra pestaña, otro dispositivo).
type EventSource interface {
	Subscribe(fn func(Event)) (cancel func())
}

// SessionStorage persiste la sesión entre arranques del cliente.
type SessionStorage interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
