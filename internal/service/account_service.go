package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/store"
)

const minPasswordLength = 6

// userRepository is the subset of store.UserStore that AccountService requires.
type userRepository interface {
	GetProfile(ctx context.Context, uid string) (*domain.User, error)
	SaveProfile(ctx context.Context, u *domain.User) error
	GetLogin(ctx context.Context, email string) (*store.Login, error)
	SaveLogin(ctx context.Context, login *store.Login) error
}

// sessionRepository is the subset of store.SessionStore that AccountService requires.
type sessionRepository interface {
	Create(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type AccountService struct {
	users    userRepository
	sessions sessionRepository
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewAccountService(users userRepository, sessions sessionRepository, ttl time.Duration, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Position  string
}

// Register creates the account and signs it in.
func (s *AccountService) Register(ctx context.Context, reg Registration) (*domain.Session, error) {
	email := store.NormalizeEmail(reg.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("a valid email is required")
	}
	if len(reg.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.users.GetLogin(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: strings.TrimSpace(reg.FirstName),
		LastName:  strings.TrimSpace(reg.LastName),
		Position:  strings.TrimSpace(reg.Position),
	}
	if err := s.users.SaveLogin(ctx, &store.Login{UserID: user.ID, Email: email, PasswordHash: string(hash)}); err != nil {
		return nil, err
	}
	if err := s.users.SaveProfile(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return s.startSession(ctx, user.ID, email)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	login, err := s.users.GetLogin(ctx, email)
	if err != nil {
		return nil, err
	}
	if login == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(login.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, login.UserID, login.Email)
}

func (s *AccountService) startSession(ctx context.Context, uid, email string) (*domain.Session, error) {
	sess := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    uid,
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user. Unknown and expired
// tokens yield ErrInvalidCredentials; expired ones are removed.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidCredentials
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to remove expired session", "error", err)
		}
		return nil, ErrInvalidCredentials
	}
	return s.Profile(ctx, sess.UserID, sess.Email)
}

// Profile returns the user's profile, creating an empty one keyed to email
// when none is stored.
func (s *AccountService) Profile(ctx context.Context, uid, email string) (*domain.User, error) {
	u, err := s.users.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u != nil {
		if u.Email == "" {
			u.Email = email
		}
		return u, nil
	}
	u = &domain.User{ID: uid, Email: email}
	if err := s.users.SaveProfile(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("created default profile", "user_id", uid)
	return u, nil
}

// UpdateProfile changes the name and position; the email stays as registered.
func (s *AccountService) UpdateProfile(ctx context.Context, u *domain.User, firstName, lastName, position string) (*domain.User, error) {
	updated := *u
	updated.FirstName = strings.TrimSpace(firstName)
	updated.LastName = strings.TrimSpace(lastName)
	updated.Position = strings.TrimSpace(position)
	if err := s.users.SaveProfile(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// LookupUser finds a registered user by email for command line tools.
func (s *AccountService) LookupUser(ctx context.Context, email string) (*domain.User, error) {
	login, err := s.users.GetLogin(ctx, email)
	if err != nil {
		return nil, err
	}
	if login == nil {
		return nil, ErrNotFound
	}
	return s.Profile(ctx, login.UserID, login.Email)
}

