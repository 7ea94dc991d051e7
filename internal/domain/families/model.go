package families

import "time"

// Family es el tenant: todo bebé, cuidador y registro cuelga de una familia.
// La identidad es ID (uuid); Phone es solo contacto.
type Family struct {
	ID    string
	Name  string
	Phone string

	CreatedAt time.Time
	UpdatedAt time.Time
}
