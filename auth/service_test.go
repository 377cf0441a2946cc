package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/taskman-go/apperror"
)

type fakeMailer struct {
	welcomes      []string
	cancellations []string
}

func (m *fakeMailer) SendWelcome(to, name string) { m.welcomes = append(m.welcomes, to) }

func (m *fakeMailer) SendCancellation(to, name string) {
	m.cancellations = append(m.cancellations, to)
}

func newTestService(store UserStore) (*AuthService, *fakeMailer) {
	mailer := &fakeMailer{}
	return NewAuthService(store, testIssuer("test-secret"), mailer, zap.NewNop()), mailer
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:     "Mike",
		Email:    "mike@example.com",
		Password: "red,green,blue",
		Age:      30,
	}
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	service, mailer := newTestService(store)

	session, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.NotZero(t, session.User.ID)
	assert.Equal(t, "mike@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)

	stored, err := store.UserByID(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "red,green,blue", stored.PasswordHash)
	assert.True(t, CheckPassword("red,green,blue", stored.PasswordHash))

	has, err := store.HasToken(context.Background(), session.User.ID, session.Token)
	require.NoError(t, err)
	assert.True(t, has, "first session token should be active")

	assert.Equal(t, []string{"mike@example.com"}, mailer.welcomes)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	service, _ := newTestService(newFakeUserStore())

	req := validRegister()
	req.Email = "  MIKE@Example.COM "
	session, err := service.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "mike@example.com", session.User.Email)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{name: "empty name", mutate: func(r *RegisterRequest) { r.Name = "" }},
		{name: "invalid email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password = "abc" }},
		{name: "password contains password", mutate: func(r *RegisterRequest) { r.Password = "password123" }},
		{name: "negative age", mutate: func(r *RegisterRequest) { r.Age = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeUserStore()
			service, _ := newTestService(store)

			req := validRegister()
			tt.mutate(&req)

			_, err := service.Register(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperror.IsValidationError(err))
			assert.Empty(t, store.users, "no user should be stored on validation failure")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestService(newFakeUserStore())

	_, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), validRegister())
	require.Error(t, err)
	assert.True(t, apperror.IsValidationError(err))
	assert.Contains(t, err.Error(), "email already in use")
}

func TestLogin(t *testing.T) {
	service, _ := newTestService(newFakeUserStore())

	registered, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)

	session, err := service.Login(context.Background(), LoginRequest{
		Email:    "mike@example.com",
		Password: "red,green,blue",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)
	assert.NotEqual(t, registered.Token, session.Token, "each login opens a fresh session")
}

func TestLoginFailureIsUniform(t *testing.T) {
	service, _ := newTestService(newFakeUserStore())

	_, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, wrongPassword := service.Login(context.Background(), LoginRequest{
		Email:    "mike@example.com",
		Password: "not-the-password",
	})
	_, unknownEmail := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "red,green,blue",
	})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.True(t, apperror.IsAuthError(wrongPassword))
	assert.True(t, apperror.IsAuthError(unknownEmail))
	// Both failures must be indistinguishable to the caller.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogoutRevokesOnlyPresentedToken(t *testing.T) {
	store := newFakeUserStore()
	service, _ := newTestService(store)

	first, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)
	second, err := service.Login(context.Background(), LoginRequest{
		Email:    "mike@example.com",
		Password: "red,green,blue",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), first.User.ID, first.Token))

	has, err := store.HasToken(context.Background(), first.User.ID, first.Token)
	require.NoError(t, err)
	assert.False(t, has, "revoked token should be gone")

	has, err = store.HasToken(context.Background(), first.User.ID, second.Token)
	require.NoError(t, err)
	assert.True(t, has, "other sessions should stay open")
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	store := newFakeUserStore()
	service, _ := newTestService(store)

	session, err := service.Register(context.Background(), validRegister())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := service.Login(context.Background(), LoginRequest{
			Email:    "mike@example.com",
			Password: "red,green,blue",
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, store.tokenCount(session.User.ID))

	require.NoError(t, service.LogoutAll(context.Background(), session.User.ID))
	assert.Zero(t, store.tokenCount(session.User.ID))
}
