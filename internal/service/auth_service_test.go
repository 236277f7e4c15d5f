package service

import (
	"context"
	"testing"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (IAuthService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewAuthService(newTestFactory(t), pub, logger.NewNopLogger()), pub
}

func TestRegisterValidation(t *testing.T) {
	valid := dto.RegisterRequest{
		FullName:      "Ana Cruz",
		Email:         "ana@example.com",
		Password:      "secret1",
		Method:        "email",
		AgreedToTerms: true,
	}

	tests := []struct {
		name   string
		mutate func(r *dto.RegisterRequest)
		want   error
	}{
		{"missing name", func(r *dto.RegisterRequest) { r.FullName = " " }, ErrMissingRegisterFields},
		{"missing method", func(r *dto.RegisterRequest) { r.Method = "" }, ErrMissingRegisterFields},
		{"terms not accepted", func(r *dto.RegisterRequest) { r.AgreedToTerms = false }, ErrTermsNotAccepted},
		{"unknown method", func(r *dto.RegisterRequest) { r.Method = "github" }, ErrInvalidMethod},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "ana@example" }, ErrInvalidEmail},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "12345" }, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newAuth(t)
			req := valid
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), &req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, pub.types())
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, pub := newAuth(t)

	res, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName:      "  Ana Cruz ",
		Email:         "Ana@Example.com",
		Password:      "secret1",
		Method:        "email",
		AgreedToTerms: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "Ana Cruz", res.User.FullName)
	assert.Nil(t, res.User.Profile)

	id, err := serverutils.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.Id, id)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, &dto.RegisterRequest{
			FullName: "Other", Email: "ANA@example.com", Password: "secret1", Method: "email", AgreedToTerms: true,
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("login succeeds case-insensitively", func(t *testing.T) {
		out, err := svc.Login(ctx, &dto.LoginRequest{Email: "ANA@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.False(t, out.Created)
		assert.Equal(t, res.User.Id, out.User.Id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "nope123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com"})
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("google sign-in on an email account", func(t *testing.T) {
		_, err := svc.GoogleLogin(ctx, &dto.GoogleLoginRequest{
			FullName: "Ana", Email: "ana@example.com", Method: "google", AgreedToTerms: true,
		})
		assert.ErrorIs(t, err, ErrUseEmailLogin)
	})

	assert.Equal(t, []string{events.UserRegistered, events.UserLogin}, pub.types())
}

func TestGoogleLogin(t *testing.T) {
	ctx := context.Background()
	svc, pub := newAuth(t)

	req := &dto.GoogleLoginRequest{
		FullName: "Ben Reyes",
		Email:    "ben@example.com",
		Profile:  "https://img/ben.png",
		Method:   "google",
	}

	_, err := svc.GoogleLogin(ctx, req)
	assert.ErrorIs(t, err, ErrTermsNotAccepted, "new accounts need consent")

	req.AgreedToTerms = true
	created, err := svc.GoogleLogin(ctx, req)
	require.NoError(t, err)
	assert.True(t, created.Created)
	require.NotNil(t, created.User.Profile)
	assert.Equal(t, "https://img/ben.png", *created.User.Profile)

	req.AgreedToTerms = false
	again, err := svc.GoogleLogin(ctx, req)
	require.NoError(t, err, "returning users need no consent")
	assert.False(t, again.Created)
	assert.Equal(t, created.User.Id, again.User.Id)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ben@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrUseGoogle)

	_, err = svc.GoogleLogin(ctx, &dto.GoogleLoginRequest{FullName: "Ben", Email: "ben@example.com", Method: "email"})
	assert.ErrorIs(t, err, ErrInvalidGoogleMethod)

	assert.Equal(t, []string{events.UserRegistered, events.UserLogin}, pub.types())
}

func TestRegisterWithGoogleMethodKeepsProfile(t *testing.T) {
	svc, _ := newAuth(t)
	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Cara", Email: "cara@example.com", Profile: "p.png", Method: "google", AgreedToTerms: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res.User.Profile)
	assert.Equal(t, "google", res.User.Method)
}
