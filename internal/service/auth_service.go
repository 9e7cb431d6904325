package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
	"github.com/noah-isme/sma-dashboard-api/internal/repository"
	appErrors "github.com/noah-isme/sma-dashboard-api/pkg/errors"
)

// AuthConfig defines token issuance settings.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService signs callers in by email and turns tokens back into actors.
// There are no passwords: signing in picks an identity, as the dashboard's
// role switcher does.
type AuthService struct {
	deps   Deps
	users  *UserService
	config AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(deps Deps, users *UserService, config AuthConfig) *AuthService {
	deps = deps.withDefaults()
	if users == nil {
		users = NewUserService(deps)
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{deps: deps, users: users, config: config}
}

// Login issues an access token for the account registered under the email.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.deps.validate(req, "invalid login payload"); err != nil {
		return nil, err
	}
	user, ok, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown account")
	}
	actor, err := s.ResolveActor(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	s.deps.Logger.Info("user signed in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        user,
		Actor:       actor,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Authenticate validates the token and resolves the caller's actor. The
// account must still exist.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (models.Actor, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}
	user, err := getOne(ctx, s.deps.Store.Users, claims.UserID, "user")
	if err != nil {
		if isNotFound(err) {
			return models.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return models.Actor{}, err
	}
	return s.ResolveActor(ctx, user)
}

// ResolveActor binds a user to its profile: the teacher or student record
// sharing the user id, or for a parent the linked child.
func (s *AuthService) ResolveActor(ctx context.Context, user models.User) (models.Actor, error) {
	actor := models.Actor{UserID: user.ID, Name: user.Name, Role: user.Role}
	switch user.Role {
	case models.RolePrincipal:
		return actor, nil
	case models.RoleTeacher:
		teachers, err := listAll(ctx, s.deps.Store.Teachers, "teachers")
		if err != nil {
			return models.Actor{}, err
		}
		for _, t := range teachers {
			if t.UserID == user.ID {
				actor.TeacherID = t.ID
				return actor, nil
			}
		}
	case models.RoleStudent:
		students, err := listAll(ctx, s.deps.Store.Students, "students")
		if err != nil {
			return models.Actor{}, err
		}
		for _, st := range students {
			if st.UserID == user.ID {
				actor.StudentID = st.ID
				return actor, nil
			}
		}
	case models.RoleParent:
		parents, err := listAll(ctx, s.deps.Store.Parents, "parents")
		if err != nil {
			return models.Actor{}, err
		}
		linked := repository.Filter(parents, func(p models.Parent) bool { return p.UserID == user.ID })
		if len(linked) == 0 {
			break
		}
		actor.ParentID = linked[0].ID
		students, err := listAll(ctx, s.deps.Store.Students, "students")
		if err != nil {
			return models.Actor{}, err
		}
		if child, ok := StudentForParent(students, actor.ParentID); ok {
			actor.StudentID = child.ID
		}
		return actor, nil
	}
	return models.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "account has no "+string(user.Role)+" profile")
}

func (s *AuthService) generateAccessToken(user models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
