package babies

import "time"

// Gender
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Baby es el sujeto de todos los registros de actividad.
// Nunca se borra: "eliminar" lo desactiva (IsActive=false).
type Baby struct {
	ID       string
	FamilyID string

	Name      string
	BirthDate time.Time // solo fecha (UTC midnight)
	Gender    Gender    // "" = no informado

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
