package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

func TestRegisterCreatesProfile(t *testing.T) {
	users := &userRepoStub{}
	profiles := &profileRepoStub{}
	svc := NewUserService(users, profiles, nil, nil, testLogger())

	u, err := svc.Register(context.Background(), "fern@example.com", "Sup3rSecret!", "Fern")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "fern@example.com", u.Email)
	assert.NotEqual(t, "Sup3rSecret!", u.Password)
	assert.NoError(t, helpers.VerifyPassword(u.Password, "Sup3rSecret!"))

	require.NotNil(t, profiles.profile)
	assert.Equal(t, u.ID, profiles.profile.UserID)
	assert.Equal(t, 50, profiles.profile.WellnessScore)
	assert.Empty(t, profiles.profile.Achievements)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &userRepoStub{}
	svc := NewUserService(users, &profileRepoStub{}, nil, nil, testLogger())

	_, err := svc.Register(context.Background(), "fern@example.com", "Sup3rSecret!", "Fern")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "fern@example.com", "0therSecret!", "Moss")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, users.users, 1)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := &userRepoStub{}
	svc := NewUserService(users, &profileRepoStub{}, nil, nil, testLogger())
	_, err := svc.Register(context.Background(), "fern@example.com", "Sup3rSecret!", "Fern")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "fern@example.com", "not-it")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "Sup3rSecret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
