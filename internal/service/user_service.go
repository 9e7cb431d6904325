package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Name  string          `json:"name" validate:"required"`
	Email string          `json:"email" validate:"required,email"`
	Role  models.UserRole `json:"role" validate:"required,oneof=Principal Teacher Student Parent"`
}

// UpdateUserRequest is a partial update. Role may be echoed back but never changed.
type UpdateUserRequest struct {
	Name  *string          `json:"name" validate:"omitempty,min=1"`
	Email *string          `json:"email" validate:"omitempty,email"`
	Role  *models.UserRole `json:"role"`
}

// UserService manages accounts.
type UserService struct {
	deps Deps
}

// NewUserService constructs a UserService.
func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps.withDefaults()}
}

// List returns every account. Principal only.
func (s *UserService) List(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return nil, err
	}
	return listAll(ctx, s.deps.Store.Users, "users")
}

// Get returns one account. Callers may always read their own.
func (s *UserService) Get(ctx context.Context, actor models.Actor, id int64) (models.User, error) {
	if actor.UserID != id {
		if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
			return models.User{}, err
		}
	}
	return getOne(ctx, s.deps.Store.Users, id, "user")
}

// FindByEmail looks up an account case-insensitively.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, bool, error) {
	users, err := listAll(ctx, s.deps.Store.Users, "users")
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// Create registers an account. Principal only.
func (s *UserService) Create(ctx context.Context, actor models.Actor, req CreateUserRequest) (models.User, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.User{}, err
	}
	if err := s.deps.validate(req, "invalid user payload"); err != nil {
		return models.User{}, err
	}
	return s.create(ctx, req)
}

func (s *UserService) create(ctx context.Context, req CreateUserRequest) (models.User, error) {
	if _, taken, err := s.FindByEmail(ctx, req.Email); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, conflict("email already registered")
	}
	user, err := insertOne(ctx, s.deps.Store.Users, models.User{
		Name:  req.Name,
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  req.Role,
	}, "user")
	if err != nil {
		return models.User{}, err
	}
	s.deps.Logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// discard removes an account registered for a profile that failed to save.
func (s *UserService) discard(ctx context.Context, id int64) {
	if err := s.deps.Store.Users.Delete(ctx, id); err != nil {
		s.deps.Logger.Error("orphaned account left behind", zap.Int64("user_id", id), zap.Error(err))
		return
	}
	s.deps.Logger.Warn("account rolled back", zap.Int64("user_id", id))
}

// Update merges the supplied fields. Changing the role is rejected.
func (s *UserService) Update(ctx context.Context, actor models.Actor, id int64, req UpdateUserRequest) (models.User, error) {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return models.User{}, err
	}
	if err := s.deps.validate(req, "invalid user payload"); err != nil {
		return models.User{}, err
	}
	user, err := getOne(ctx, s.deps.Store.Users, id, "user")
	if err != nil {
		return models.User{}, err
	}
	if req.Role != nil && *req.Role != user.Role {
		return models.User{}, invalid("role cannot be changed after creation")
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		if _, taken, err := s.FindByEmail(ctx, *req.Email); err != nil {
			return models.User{}, err
		} else if taken {
			return models.User{}, conflict("email already registered")
		}
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	setIf(&user.Name, req.Name)
	if err := updateOne(ctx, s.deps.Store.Users, user, "user"); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes an account; unknown ids are ignored.
func (s *UserService) Delete(ctx context.Context, actor models.Actor, id int64) error {
	if err := s.deps.Auth.RequirePrincipal(actor); err != nil {
		return err
	}
	if actor.UserID == id {
		return conflict("cannot delete the signed-in account")
	}
	linked, err := s.hasProfile(ctx, id)
	if err != nil {
		return err
	}
	if linked {
		return conflict("user still has a teacher, student or parent profile")
	}
	return deleteOne(ctx, s.deps.Store.Users, id, "user")
}

func (s *UserService) hasProfile(ctx context.Context, userID int64) (bool, error) {
	teachers, err := listAll(ctx, s.deps.Store.Teachers, "teachers")
	if err != nil {
		return false, err
	}
	if anyMatch(teachers, func(t models.Teacher) bool { return t.UserID == userID }) {
		return true, nil
	}
	students, err := listAll(ctx, s.deps.Store.Students, "students")
	if err != nil {
		return false, err
	}
	if anyMatch(students, func(st models.Student) bool { return st.UserID == userID }) {
		return true, nil
	}
	parents, err := listAll(ctx, s.deps.Store.Parents, "parents")
	if err != nil {
		return false, err
	}
	return anyMatch(parents, func(p models.Parent) bool { return p.UserID == userID }), nil
}
