package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type conversationRow struct {
	Question  string `json:"question"`
	Response  string `json:"response"`
	Timestamp int64  `json:"timestamp"`
}

// ConversationStore keeps assistant exchanges per project.
type ConversationStore struct {
	docs docstore.Store
}

func NewConversationStore(docs docstore.Store) *ConversationStore {
	return &ConversationStore{docs: docs}
}

func (s *ConversationStore) Append(ctx context.Context, projectID string, c *domain.Conversation) (*domain.Conversation, error) {
	row := conversationRow{Question: c.Question, Response: c.Response, Timestamp: c.Timestamp}
	id, err := s.docs.Push(ctx, docstore.Join(conversationsPath, projectID), row)
	if err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}
	saved := *c
	saved.ID = id
	return &saved, nil
}

func (s *ConversationStore) List(ctx context.Context, projectID string) ([]*domain.Conversation, error) {
	docs, err := s.docs.List(ctx, docstore.Join(conversationsPath, projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return decodeAll(docs, func(key string, raw json.RawMessage) (*domain.Conversation, error) {
		var row conversationRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		return &domain.Conversation{ID: key, Question: row.Question, Response: row.Response, Timestamp: row.Timestamp}, nil
	}), nil
}

func (s *ConversationStore) Clear(ctx context.Context, projectID string) error {
	if err := s.docs.Remove(ctx, docstore.Join(conversationsPath, projectID)); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	return nil
}
