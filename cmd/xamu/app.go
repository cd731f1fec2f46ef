package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant/claude"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant/gemini"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant/groq"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant/ollama"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/config"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/db"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/docstore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore/cloudinary"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore/local"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/store"
)

// app holds the opened database and the services built on it.
type app struct {
	database  *sql.DB
	docs      *docstore.SQLStore
	photos    photostore.PhotoStore
	accounts  *service.AccountService
	workspace *service.WorkspaceService
	assistant *service.AssistantService
}

func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DataSource())
	if err != nil {
		return nil, err
	}
	docs := docstore.NewSQLStore(database, cfg.DBDriver, logger)

	photos, err := newPhotoStore(cfg, logger)
	if err != nil {
		docs.Close()
		_ = database.Close()
		return nil, err
	}

	accounts := service.NewAccountService(store.NewUserStore(docs), store.NewSessionStore(docs), cfg.SessionTTL, logger)
	workspace := service.NewWorkspaceService(
		store.NewClientStore(docs),
		store.NewProjectStore(docs),
		store.NewRecordStore(docs),
		photos,
		logger,
	)
	helper := service.NewAssistantService(workspace, newAssistant(ctx, cfg, logger), store.NewConversationStore(docs), logger)

	return &app{
		database:  database,
		docs:      docs,
		photos:    photos,
		accounts:  accounts,
		workspace: workspace,
		assistant: helper,
	}, nil
}

func (a *app) Close(logger *slog.Logger) {
	a.docs.Close()
	if err := a.database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}

func newPhotoStore(cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	switch cfg.PhotoBackend {
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" {
			return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required when PHOTO_BACKEND=cloudinary")
		}
		logger.Info("using Cloudinary photo store", "cloud", cfg.CloudinaryCloudName)
		return cloudinary.NewCloudinaryPhotoStore(cloudinary.Config{
			CloudName:    cfg.CloudinaryCloudName,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
			UploadPreset: cfg.CloudinaryUploadPreset,
		}, logger), nil
	default:
		logger.Info("using local photo store", "path", cfg.PhotoPath)
		return local.NewLocalPhotoStore(cfg.PhotoPath, "/photos")
	}
}

// newAssistant picks the configured backend. A backend without credentials
// is replaced by one that reports it is not configured.
func newAssistant(ctx context.Context, cfg *config.Config, logger *slog.Logger) assistant.Assistant {
	switch cfg.AssistantBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Warn("CLAUDE_API_KEY is not set; assistant disabled")
			return assistant.Unconfigured{Backend: "claude"}
		}
		logger.Info("using Claude assistant backend", "model", cfg.ClaudeModel)
		return claude.NewClaudeAssistant(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama assistant backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.NewOllamaAssistant(cfg.OllamaHost, cfg.OllamaModel)
	case "groq":
		if cfg.GroqAPIKey == "" {
			logger.Warn("GROQ_API_KEY is not set; assistant disabled")
			return assistant.Unconfigured{Backend: "groq"}
		}
		logger.Info("using Groq assistant backend", "model", cfg.GroqModel)
		return groq.NewGroqAssistant(cfg.GroqAPIKey, cfg.GroqModel)
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY is not set; assistant disabled")
			return assistant.Unconfigured{Backend: "gemini"}
		}
		a, err := gemini.NewGeminiAssistant(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
		if err != nil {
			logger.Error("failed to create gemini assistant", "error", err)
			return assistant.Unconfigured{Backend: "gemini"}
		}
		logger.Info("using Gemini assistant backend", "model", cfg.GeminiModel)
		return a
	}
}
