package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type userRow struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Position  string `json:"qualification"`
}

// Login is the credential stored per email address.
type Login struct {
	UserID       string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type UserStore struct {
	docs docstore.Store
}

func NewUserStore(docs docstore.Store) *UserStore {
	return &UserStore{docs: docs}
}

func (s *UserStore) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	var row userRow
	found, err := getDoc(ctx, s.docs, docstore.Join(usersPath, uid), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &domain.User{
		ID:        uid,
		Email:     row.Email,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Position:  row.Position,
	}, nil
}

func (s *UserStore) SaveProfile(ctx context.Context, u *domain.User) error {
	row := userRow{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Position: u.Position}
	if err := s.docs.Set(ctx, docstore.Join(usersPath, u.ID), row); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func loginPath(email string) string {
	return docstore.Join(loginsPath, NormalizeEmail(email))
}

// NormalizeEmail is the canonical form emails are keyed and compared by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) GetLogin(ctx context.Context, email string) (*Login, error) {
	var login Login
	found, err := getDoc(ctx, s.docs, loginPath(email), &login)
	if err != nil {
		return nil, fmt.Errorf("failed to get login: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &login, nil
}

func (s *UserStore) SaveLogin(ctx context.Context, login *Login) error {
	if err := s.docs.Set(ctx, loginPath(login.Email), login); err != nil {
		return fmt.Errorf("failed to save login: %w", err)
	}
	return nil
}
