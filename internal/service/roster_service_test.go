package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

func newRosterService(roster *rosterStub) RosterService {
	return NewRosterService(roster, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestRosterCreateDefaultsBelt(t *testing.T) {
	roster := &rosterStub{}
	svc := newRosterService(roster)

	created, err := svc.Create(context.Background(), dto.StudentCreateRequest{Name: "  Mina  ", Age: 11})
	require.NoError(t, err)
	require.Equal(t, "Mina", created.Name)
	require.Equal(t, "White", created.Belt)
	require.True(t, created.IsActive)
	require.NotEmpty(t, created.ID)
}

func TestRosterCreateValidation(t *testing.T) {
	svc := newRosterService(&rosterStub{})

	_, err := svc.Create(context.Background(), dto.StudentCreateRequest{Name: "", Age: 10})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), dto.StudentCreateRequest{Name: "Kid", Age: 150})
	require.Error(t, err)
}

func TestRosterUpdateMissingStudent(t *testing.T) {
	svc := newRosterService(&rosterStub{})

	_, err := svc.Update(context.Background(), "ghost", dto.StudentUpdateRequest{Name: "New Name", Age: 12})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestRosterUpdateKeepsBeltWhenOmitted(t *testing.T) {
	roster := &rosterStub{students: []models.Student{
		{ID: "s1", Name: "Ana", Belt: "Green", IsActive: true},
	}}
	svc := newRosterService(roster)

	updated, err := svc.Update(context.Background(), "s1", dto.StudentUpdateRequest{Name: "Ana Maria", Age: 13})
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", updated.Name)
	require.Equal(t, "Green", updated.Belt, "an empty belt in the request keeps the current rank")
}

func TestRosterGetMissing(t *testing.T) {
	svc := newRosterService(&rosterStub{})
	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrStudentNotFound)
}
