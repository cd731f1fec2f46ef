package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type sessionRow struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"`
}

type SessionStore struct {
	docs docstore.Store
}

func NewSessionStore(docs docstore.Store) *SessionStore {
	return &SessionStore{docs: docs}
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	row := sessionRow{UserID: sess.UserID, Email: sess.Email, ExpiresAt: sess.ExpiresAt.UnixMilli()}
	if err := s.docs.Set(ctx, docstore.Join(sessionsPath, sess.Token), row); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	found, err := getDoc(ctx, s.docs, docstore.Join(sessionsPath, token), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &domain.Session{
		Token:     token,
		UserID:    row.UserID,
		Email:     row.Email,
		ExpiresAt: time.UnixMilli(row.ExpiresAt),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.docs.Remove(ctx, docstore.Join(sessionsPath, token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
