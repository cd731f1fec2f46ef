package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

// conversationRepository is the subset of store.ConversationStore that AssistantService requires.
type conversationRepository interface {
	Append(ctx context.Context, projectID string, c *domain.Conversation) (*domain.Conversation, error)
	List(ctx context.Context, projectID string) ([]*domain.Conversation, error)
	Clear(ctx context.Context, projectID string) error
}

type AssistantService struct {
	workspace     *WorkspaceService
	backend       assistant.Assistant
	conversations conversationRepository
	now           func() time.Time
	logger        *slog.Logger
}

func NewAssistantService(workspace *WorkspaceService, backend assistant.Assistant, conversations conversationRepository, logger *slog.Logger) *AssistantService {
	return &AssistantService{
		workspace:     workspace,
		backend:       backend,
		conversations: conversations,
		now:           time.Now,
		logger:        logger,
	}
}

// Ask streams the assistant's answer to question about the project's field
// data, narrowed by search like the project page. A complete answer is
// appended to the project's conversation history; an interrupted one is not.
func (s *AssistantService) Ask(ctx context.Context, u *domain.User, projectID, question, search string) (<-chan assistant.Chunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, validationError("question is required")
	}
	view, err := s.workspace.ProjectView(ctx, u, projectID, search)
	if err != nil {
		return nil, err
	}

	ws, _ := s.backend.(assistant.WebSearcher)
	prompt := assistant.BuildPrompt(assistant.PromptInput{
		ClientName:  view.ClientName(),
		ProjectName: view.Project.ProjectName,
		Records:     view.Records,
		Question:    question,
		WebSearch:   ws != nil && ws.SearchesWeb(),
	})

	s.logger.Info("assistant question", "project", view.Project.ProjectName, "records", len(view.Records))
	in, err := s.backend.Ask(ctx, prompt)
	if err != nil {
		return nil, err
	}

	out := make(chan assistant.Chunk, 16)
	go func() {
		defer close(out)
		var answer strings.Builder
		for c := range in {
			if c.Err != nil {
				s.logger.Warn("assistant stream failed", "project_id", projectID, "error", c.Err)
				select {
				case out <- c:
				case <-ctx.Done():
				}
				return
			}
			answer.WriteString(c.Text)
			select {
			case out <- c:
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil || answer.Len() == 0 {
			return
		}
		s.save(context.WithoutCancel(ctx), projectID, question, answer.String())
	}()
	return out, nil
}

func (s *AssistantService) save(ctx context.Context, projectID, question, response string) {
	_, err := s.conversations.Append(ctx, projectID, &domain.Conversation{
		Question:  question,
		Response:  response,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		s.logger.Error("failed to save conversation", "project_id", projectID, "error", err)
	}
}

func (s *AssistantService) History(ctx context.Context, u *domain.User, projectID string) ([]*domain.Conversation, error) {
	if _, err := s.workspace.GetProject(ctx, u, projectID); err != nil {
		return nil, err
	}
	return s.conversations.List(ctx, projectID)
}

func (s *AssistantService) ClearHistory(ctx context.Context, u *domain.User, projectID string) error {
	if _, err := s.workspace.GetProject(ctx, u, projectID); err != nil {
		return err
	}
	return s.conversations.Clear(ctx, projectID)
}
