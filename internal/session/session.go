// Package session holds the locally simulated login state. Credentials are never
// verified: there is no backend to check them against.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/blogfront/internal/model"
	"github.com/and161185/blogfront/internal/storage"
)

// Durable storage keys. Both are written and cleared together.
const (
	KeyUser          = "user"
	KeyAuthenticated = "isAuthenticated"
)

const (
	// DemoEmail is the one address that gets a recognizable display name on login.
	DemoEmail     = "demo@blogapp.com"
	demoName      = "Demo User"
	genericName   = "User"
	loginIdentity = int64(1)
)

// State is the two-state session machine.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Store is the single owner of the current identity.
type Store struct {
	kv    storage.KV
	log   *zap.Logger
	newID func() int64

	mu       sync.RWMutex
	identity model.Identity
	state    State
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithIDSource overrides the signup id generator.
func WithIDSource(fn func() int64) Option { return func(s *Store) { s.newID = fn } }

// Open restores the session from kv.
func Open(ctx context.Context, kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{kv: kv, log: zap.NewNop(), newID: millisIDs()}
	for _, o := range opts {
		o(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads durable storage. Partial or undecodable state is Anonymous.
func (s *Store) Reload(ctx context.Context) error {
	raw, hasUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyUser, err)
	}
	marker, _, err := s.kv.Get(ctx, KeyAuthenticated)
	if err != nil {
		return fmt.Errorf("read %s: %w", KeyAuthenticated, err)
	}

	var id model.Identity
	state := Anonymous
	if hasUser && marker == "true" {
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			s.log.Warn("stored identity unreadable, starting anonymous", zap.Error(err))
			id = model.Identity{}
		} else {
			state = Authenticated
		}
	}

	s.mu.Lock()
	s.identity, s.state = id, state
	s.mu.Unlock()
	return nil
}

// Login authenticates as email. The password is accepted and ignored.
func (s *Store) Login(ctx context.Context, email, _ string) (model.Identity, error) {
	name := genericName
	if email == DemoEmail {
		name = demoName
	}
	id := model.Identity{ID: loginIdentity, Name: name, Email: email}
	if err := s.become(ctx, id); err != nil {
		return model.Identity{}, err
	}
	s.log.Info("login", zap.Int64("user_id", id.ID))
	return id, nil
}

// Signup authenticates as a new identity with a fresh numeric id.
func (s *Store) Signup(ctx context.Context, name, email, _ string) (model.Identity, error) {
	id := model.Identity{ID: s.newID(), Name: name, Email: email}
	if err := s.become(ctx, id); err != nil {
		return model.Identity{}, err
	}
	s.log.Info("signup", zap.Int64("user_id", id.ID))
	return id, nil
}

// Logout returns to Anonymous and clears both storage keys.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, KeyUser, KeyAuthenticated); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.identity, s.state = model.Identity{}, Anonymous
	s.log.Info("logout")
	return nil
}

func (s *Store) become(ctx context.Context, id model.Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.SetMany(ctx, map[string]string{KeyUser: string(b), KeyAuthenticated: "true"}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.identity, s.state = id, Authenticated
	return nil
}

// Current returns the identity and whether the session is authenticated.
func (s *Store) Current() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.state == Authenticated
}

// IsAuthenticated reports the state.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// State returns the machine state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// millisIDs issues unix-millisecond ids, bumped when two calls share a millisecond.
func millisIDs() func() int64 {
	var (
		mu   sync.Mutex
		last int64
	)
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := time.Now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}
