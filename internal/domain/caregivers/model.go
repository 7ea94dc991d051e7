package caregivers

import (
	"strings"
	"time"
)

// Relationship es el vínculo del cuidador con el/los bebés.
// @Enum father, mother, grandfather, grandmother, uncle, aunt, nanny, guardian, other
type Relationship string

const (
	RelationshipFather      Relationship = "father"
	RelationshipMother      Relationship = "mother"
	RelationshipGrandfather Relationship = "grandfather"
	RelationshipGrandmother Relationship = "grandmother"
	RelationshipUncle       Relationship = "uncle"
	RelationshipAunt        Relationship = "aunt"
	RelationshipNanny       Relationship = "nanny"
	RelationshipGuardian    Relationship = "guardian"
	RelationshipOther       Relationship = "other"
)

var relationships = map[Relationship]struct{}{
	RelationshipFather:      {},
	RelationshipMother:      {},
	RelationshipGrandfather: {},
	RelationshipGrandmother: {},
	RelationshipUncle:       {},
	RelationshipAunt:        {},
	RelationshipNanny:       {},
	RelationshipGuardian:    {},
	RelationshipOther:       {},
}

// ParseRelationship acepta "" (no informado) o un valor conocido.
func ParseRelationship(s string) (Relationship, bool) {
	r := Relationship(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return "", true
	}
	_, ok := relationships[r]
	return r, ok
}

// Caregiver es el perfil de una persona que cuida a los bebés de una familia.
// Para titulares de cuenta, ID == id del Principal y Email es el email derivado
// con el que se autentica.
type Caregiver struct {
	ID       string
	FamilyID string

	Name         string
	Phone        string
	Email        string
	Relationship Relationship
	IsPrimary    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLoginEmail reporta si el perfil puede autenticarse por teléfono.
func (c Caregiver) HasLoginEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}
