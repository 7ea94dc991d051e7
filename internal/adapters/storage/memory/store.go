// Package memory implementa los repositorios sobre mapas en memoria.
// Es el backend de desarrollo y de los tests end-to-end.
package memory

import (
	"sync"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
)

// Store comparte un único lock entre todas las tablas: los registros de
// actividad se filtran por familia a través de babies.
type Store struct {
	mu sync.RWMutex

	families   map[string]families.Family
	caregivers map[string]caregivers.Caregiver
	babies     map[string]babies.Baby
	records    map[activities.Kind]map[string]activities.Record
}

func NewStore() *Store {
	s := &Store{
		families:   make(map[string]families.Family),
		caregivers: make(map[string]caregivers.Caregiver),
		babies:     make(map[string]babies.Baby),
		records:    make(map[activities.Kind]map[string]activities.Record),
	}
	for _, k := range activities.AllKinds {
		s.records[k] = make(map[string]activities.Record)
	}
	return s
}

func (s *Store) Families() families.Repository     { return &familyRepo{s: s} }
func (s *Store) Caregivers() caregivers.Repository { return &caregiverRepo{s: s} }
func (s *Store) Babies() babies.Repository         { return &babyRepo{s: s} }
func (s *Store) Activities() activities.Repository { return &activityRepo{s: s} }
