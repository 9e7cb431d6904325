package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDeps(t), nil, AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "sma-dashboard-api",
	})
}

func TestAuthServiceLoginResolvesActor(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	cases := []struct {
		email string
		want  models.Actor
	}{
		{"principal@school.edu", models.Actor{UserID: 1, Name: "Dr. Evelyn Reed", Role: models.RolePrincipal}},
		{"D.Chen@school.edu", models.Actor{UserID: 2, Name: "Mr. David Chen", Role: models.RoleTeacher, TeacherID: 201}},
		{"c.brown@student.edu", models.Actor{UserID: 6, Name: "Charlie Brown", Role: models.RoleStudent, StudentID: 103}},
		{"s.williams@parent.edu", models.Actor{UserID: 8, Name: "Sarah Williams", Role: models.RoleParent, ParentID: 302, StudentID: 102}},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			resp, err := svc.Login(ctx, models.LoginRequest{Email: tc.email})
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.Actor)
			assert.Equal(t, int64(3600), resp.ExpiresIn)

			actor, err := svc.Authenticate(ctx, resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tc.want, actor)
		})
	}
}

func TestAuthServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@school.edu"})
	assertCode(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ghost"})
	assertCode(t, err, appErrors.ErrValidation)
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "a.johnson@student.edu"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	assertCode(t, err, appErrors.ErrUnauthorized)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID:           1,
		Role:             models.RolePrincipal,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assertCode(t, err, appErrors.ErrUnauthorized)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sma-dashboard-api", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	signed, err = expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assertCode(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceAuthenticateDeletedAccount(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	svc := NewAuthService(deps, nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "sma-dashboard-api"})

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "c.brown@student.edu"})
	require.NoError(t, err)
	require.NoError(t, NewStudentService(deps, nil).Delete(ctx, models.PrincipalActor(1), 103))

	_, err = svc.Authenticate(ctx, resp.AccessToken)
	assertCode(t, err, appErrors.ErrUnauthorized)
}
