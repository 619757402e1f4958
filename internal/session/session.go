// Package session owns the authenticated identity and credential for the
// running process. It is the single producer of the bearer token the gateway
// reads on every call; everything downstream receives the Store by reference
// rather than through a package-level global.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/warungdesk/warungdesk/internal/models"
	"github.com/warungdesk/warungdesk/internal/statestore"
)

// State is the session lifecycle position.
type State int

const (
	Uninitialized State = iota
	Restoring
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// authAPI is the slice of the gateway the session needs.
type authAPI interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Store holds the identity+credential pair and persists it through a
// statestore. A non-nil user always implies a non-empty token: both are set
// and cleared together under one lock.
type Store struct {
	mu    sync.RWMutex
	state State
	user  *models.User
	token string

	persist *statestore.Store
	api     authAPI
	log     *logrus.Logger
}

func New(persist *statestore.Store, log *logrus.Logger) *Store {
	return &Store{state: Uninitialized, persist: persist, log: log}
}

// UseGateway wires the auth transport. The gateway itself reads this Store
// as its TokenSource, so the two are constructed first and joined here.
func (s *Store) UseGateway(api authAPI) { s.api = api }

// Restore runs once at process start. A corrupt persisted identity clears
// both entries and lands in Anonymous; it is never surfaced as an error.
func (s *Store) Restore() State {
	s.mu.Lock()
	s.state = Restoring
	s.mu.Unlock()

	identity, token, ok, err := s.persist.Load()
	if err != nil {
		s.log.WithError(err).Warn("session restore: state db unreadable")
		s.setAnonymous()
		return Anonymous
	}
	if !ok || token == "" {
		s.setAnonymous()
		return Anonymous
	}

	var user models.User
	if err := json.Unmarshal(identity, &user); err != nil {
		s.log.WithError(err).Warn("session restore: corrupt identity payload, clearing")
		if clearErr := s.persist.Clear(); clearErr != nil {
			s.log.WithError(clearErr).Warn("session restore: clear failed")
		}
		s.setAnonymous()
		return Anonymous
	}

	s.mu.Lock()
	s.state = Authenticated
	s.user = &user
	s.token = token
	s.mu.Unlock()
	s.log.WithField("email", user.Email).Info("session restored")
	return Authenticated
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a session. Gateway failures propagate
// untouched and the store stays Anonymous.
func (s *Store) Login(ctx context.Context, email, password string) error {
	var resp authResponse
	if err := s.api.Do(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return s.accept(resp)
}

// Register creates an account and signs in, same contract as Login.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	var resp authResponse
	if err := s.api.Do(ctx, http.MethodPost, "/auth/register", credentials{Name: name, Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return s.accept(resp)
}

func (s *Store) accept(resp authResponse) error {
	identity, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := s.persist.Save(identity, resp.Token); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = Authenticated
	s.user = &resp.User
	s.token = resp.Token
	s.mu.Unlock()
	s.log.WithField("email", resp.User.Email).Info("signed in")
	return nil
}

// Logout clears the persisted pair and drops to Anonymous. Idempotent.
func (s *Store) Logout() error {
	err := s.persist.Clear()
	s.setAnonymous()
	if err != nil {
		return err
	}
	s.log.Info("signed out")
	return nil
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.state = Anonymous
	s.user = nil
	s.token = ""
	s.mu.Unlock()
}

// State returns the current lifecycle position.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the authenticated identity, or nil while anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token implements gateway.TokenSource. Empty while not authenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
