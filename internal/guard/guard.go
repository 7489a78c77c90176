// Package guard gates write-capable operations behind an authenticated session.
package guard

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/model"
)

// LoginPath is where anonymous visitors are redirected.
const LoginPath = "/login"

// Messages shown when an anonymous session is turned away.
const (
	DeniedTitle       = "Please login to access this page"
	DeniedDescription = "You need to be logged in to create posts."
)

// Authenticator exposes the current session. Implemented by *session.Store.
type Authenticator interface {
	Current() (model.Identity, bool)
}

// Notifier is the user-visible notification sink.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// Navigator performs redirects.
type Navigator interface {
	Redirect(path string)
}

// Guard redirects anonymous sessions away from protected handlers.
type Guard struct {
	auth   Authenticator
	notify Notifier
	nav    Navigator
	log    *zap.Logger
}

// New constructs a Guard.
func New(auth Authenticator, notify Notifier, nav Navigator, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{auth: auth, notify: notify, nav: nav, log: log}
}

// Enter reports whether the protected content may be shown. On false the visitor
// has been notified and redirected.
func (g *Guard) Enter(ctx context.Context) (context.Context, bool) {
	id, ok := g.auth.Current()
	if !ok {
		g.log.Debug("guard: anonymous, redirecting", zap.String("to", LoginPath))
		g.notify.Error(DeniedTitle, DeniedDescription)
		g.nav.Redirect(LoginPath)
		return ctx, false
	}
	return WithIdentity(ctx, id), true
}

// Protect wraps fn so it only runs for authenticated sessions.
// The returned ErrUnauthorized only informs the caller's exit status; the
// notification and redirect have already happened.
func (g *Guard) Protect(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, ok := g.Enter(ctx)
		if !ok {
			return errs.ErrUnauthorized
		}
		return fn(ctx)
	}
}
