package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/platform/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaregiverLookup struct {
	errs  []error
	c     caregivers.Caregiver
	calls int
}

func (f *fakeCaregiverLookup) GetByID(context.Context, string) (caregivers.Caregiver, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return caregivers.Caregiver{}, err
	}
	return f.c, nil
}

type fakeFamilyLookup struct {
	f   families.Family
	err error
}

func (f fakeFamilyLookup) GetByID(context.Context, string) (families.Family, error) {
	return f.f, f.err
}

var netErr = fmt.Errorf("fetch caregiver: %w", errs.ErrTransientNetwork)

func TestResolve_RetriesTransientErrors(t *testing.T) {
	cg := &fakeCaregiverLookup{
		errs: []error{netErr, netErr},
		c:    caregivers.Caregiver{ID: "p1", FamilyID: "f1"},
	}
	r := NewResolver(cg, fakeFamilyLookup{f: families.Family{ID: "f1"}}, WithRetryDelay(0))

	res := r.Resolve(context.Background(), "p1")
	assert.Equal(t, 3, cg.calls)
	assert.Equal(t, "p1", res.CaregiverID())
	assert.Equal(t, "f1", res.FamilyID())
	assert.False(t, res.Failed)
}

func TestResolve_GivesUpAfterRetries(t *testing.T) {
	cg := &fakeCaregiverLookup{errs: []error{netErr, netErr, netErr, netErr}}
	r := NewResolver(cg, fakeFamilyLookup{}, WithRetryDelay(0))

	res := r.Resolve(context.Background(), "p1")
	assert.Equal(t, 3, cg.calls)
	assert.Nil(t, res.Caregiver)
	assert.Nil(t, res.Family)
	assert.True(t, res.Failed)
}

func TestResolve_NoRetryOnOtherErrors(t *testing.T) {
	cg := &fakeCaregiverLookup{errs: []error{fmt.Errorf("caregiver %w", errs.ErrNotFound)}}
	r := NewResolver(cg, fakeFamilyLookup{}, WithRetryDelay(0))

	res := r.Resolve(context.Background(), "p1")
	assert.Equal(t, 1, cg.calls)
	assert.Empty(t, res.CaregiverID())
	assert.False(t, res.Failed)
}

func TestResolve_FamilyErrorIsDegraded(t *testing.T) {
	cg := &fakeCaregiverLookup{c: caregivers.Caregiver{ID: "p1", FamilyID: "f1"}}
	r := NewResolver(cg, fakeFamilyLookup{err: errors.New("boom")})

	res := r.Resolve(context.Background(), "p1")
	require.NotNil(t, res.Caregiver)
	assert.Nil(t, res.Family)
	assert.Empty(t, res.FamilyID())
	assert.True(t, res.Failed)
}

func TestResolve_ContextCancelledDuringDelay(t *testing.T) {
	cg := &fakeCaregiverLookup{errs: []error{netErr, netErr, netErr}}
	r := NewResolver(cg, fakeFamilyLookup{}, WithRetryDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Resolve(ctx, "p1")
	assert.Equal(t, 1, cg.calls)
	assert.Nil(t, res.Caregiver)
	assert.True(t, res.Failed)
}
