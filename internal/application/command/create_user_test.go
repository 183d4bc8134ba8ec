package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewCreateUserHandler(repo, nil)

	result, err := handler.Handle(context.Background(), CreateUserCommand{
		FullName: "Marie Ngo",
		Email:    " Marie.Ngo@Agence.CM ",
		Password: "secret123",
		Role:     user.RoleSecretary,
	})
	require.NoError(t, err)

	assert.Equal(t, "marie.ngo@agence.cm", result.User.Email)
	assert.Equal(t, user.RoleSecretary, result.User.Role)
	assert.True(t, result.User.Active)
	assert.True(t, result.User.CheckPassword("secret123"))
	assert.False(t, result.User.CheckPassword("wrong"))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	handler := NewCreateUserHandler(repo, nil)
	ctx := context.Background()

	cmd := CreateUserCommand{
		FullName: "Marie Ngo",
		Email:    "marie@agence.cm",
		Password: "secret123",
		Role:     user.RoleAgent,
	}

	_, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestCreateUser_UnknownRole(t *testing.T) {
	handler := NewCreateUserHandler(newFakeUserRepo(), nil)

	_, err := handler.Handle(context.Background(), CreateUserCommand{
		Email:    "x@y.z",
		Password: "secret",
		Role:     "director",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateUser_MissingCredentials(t *testing.T) {
	handler := NewCreateUserHandler(newFakeUserRepo(), nil)

	_, err := handler.Handle(context.Background(), CreateUserCommand{Password: "x", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = handler.Handle(context.Background(), CreateUserCommand{Email: "x@y.z", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
