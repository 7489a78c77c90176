// Package service contains the page-level application services: post browsing and
// editing on top of the provider, and the login/signup forms on top of the session.
package service

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
)

// MinPasswordLen is the shortest password the signup form accepts.
const MinPasswordLen = 6

// Sessions is the subset of *session.Store the forms drive.
type Sessions interface {
	Login(ctx context.Context, email, password string) (model.Identity, error)
	Signup(ctx context.Context, name, email, password string) (model.Identity, error)
	Logout(ctx context.Context) error
}

// LoginForm is the login page input.
type LoginForm struct {
	Email    string
	Password string
}

// SignupForm is the signup page input.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// AuthService defines the login, signup and logout forms.
type AuthService interface {
	// Login starts a session after the form passes validation.
	Login(ctx context.Context, f LoginForm) (model.Identity, error)
	// Signup applies the signup rules, then starts a session.
	Signup(ctx context.Context, f SignupForm) (model.Identity, error)
	Logout(ctx context.Context) error
}

// AuthServiceImpl validates forms before touching the session.
type AuthServiceImpl struct {
	sessions Sessions
	log      *zap.Logger
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(sessions Sessions, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{sessions: sessions, log: log}
}

// Login checks that both fields are filled, then logs in.
func (s *AuthServiceImpl) Login(ctx context.Context, f LoginForm) (model.Identity, error) {
	if f.Email == "" || f.Password == "" {
		return s.reject("login", errs.Invalid("Please fill in all fields"))
	}
	id, err := s.sessions.Login(ctx, f.Email, f.Password)
	if err != nil {
		s.log.Warn("login: session", zap.Error(err))
		return model.Identity{}, err
	}
	s.log.Debug("logged in", zap.Int64("user_id", id.ID))
	return id, nil
}

// Signup applies the form rules in page order, then signs up.
func (s *AuthServiceImpl) Signup(ctx context.Context, f SignupForm) (model.Identity, error) {
	switch {
	case f.Name == "" || f.Email == "" || f.Password == "" || f.ConfirmPassword == "":
		return s.reject("signup", errs.Invalid("Please fill in all fields"))
	case f.Password != f.ConfirmPassword:
		return s.reject("signup", errs.Invalid("Passwords do not match"))
	case utf8.RuneCountInString(f.Password) < MinPasswordLen:
		return s.reject("signup", errs.Invalid("Password must be at least 6 characters long"))
	case !f.AcceptTerms:
		return s.reject("signup", errs.Invalid("Please accept the terms and conditions"))
	}
	id, err := s.sessions.Signup(ctx, f.Name, f.Email, f.Password)
	if err != nil {
		s.log.Warn("signup: session", zap.Error(err))
		return model.Identity{}, err
	}
	s.log.Debug("signed up", zap.Int64("user_id", id.ID))
	return id, nil
}

// Logout ends the session.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if err := s.sessions.Logout(ctx); err != nil {
		s.log.Warn("logout: session", zap.Error(err))
		return err
	}
	return nil
}

func (s *AuthServiceImpl) reject(form string, err error) (model.Identity, error) {
	s.log.Debug("form rejected", zap.String("form", form), zap.Error(err))
	return model.Identity{}, err
}
