package web

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/i18n"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/settings"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/websearch"
)

type weatherLookup interface {
	Current(ctx context.Context, loc domain.GeoLocation) (*domain.Weather, error)
	ByCity(ctx context.Context, city string) (*domain.Weather, error)
}

type searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Accounts   *service.AccountService
	Workspace  *service.WorkspaceService
	Assistant  *service.AssistantService
	Weather    weatherLookup
	Search     searcher
	PhotoStore photostore.PhotoStore
	Settings   *settings.Settings
	Bundle     *i18n.Bundle
}

type Server struct {
	Deps
	templates    fs.FS
	mux          *http.ServeMux
	logger       *slog.Logger
	now          func() time.Time
	secureCookie bool
}

func NewServer(deps Deps, tmpl fs.FS, logger *slog.Logger) *Server {
	s := &Server{
		Deps:      deps,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		now:       time.Now,
	}
	s.registerRoutes()
	return s
}

// SecureCookies marks the session cookie Secure, for deployments behind TLS.
func (s *Server) SecureCookies(on bool) {
	s.secureCookie = on
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /register", s.handleRegisterPage)
	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("POST /logout", s.handleLogout)

	s.mux.HandleFunc("GET /{$}", s.authed(s.handleDashboard))
	s.mux.HandleFunc("GET /clients", s.authed(s.handleListClients))
	s.mux.HandleFunc("POST /clients", s.authed(s.handleCreateClient))
	s.mux.HandleFunc("GET /clients/{id}", s.authed(s.handleClientDetail))
	s.mux.HandleFunc("POST /clients/{id}", s.authed(s.handleUpdateClient))
	s.mux.HandleFunc("DELETE /clients/{id}", s.authed(s.handleDeleteClient))
	s.mux.HandleFunc("POST /clients/{id}/projects", s.authed(s.handleCreateProject))

	s.mux.HandleFunc("GET /projects/{id}", s.authed(s.handleProject))
	s.mux.HandleFunc("POST /projects/{id}", s.authed(s.handleUpdateProject))
	s.mux.HandleFunc("DELETE /projects/{id}", s.authed(s.handleDeleteProject))
	s.mux.HandleFunc("GET /projects/{id}/export.xlsx", s.authed(s.handleExportProject))
	s.mux.HandleFunc("POST /projects/{id}/records", s.authed(s.handleCreateRecord))
	s.mux.HandleFunc("GET /projects/{id}/records/{rid}", s.authed(s.handleRecord))
	s.mux.HandleFunc("POST /projects/{id}/records/{rid}", s.authed(s.handleUpdateRecord))
	s.mux.HandleFunc("DELETE /projects/{id}/records/{rid}", s.authed(s.handleDeleteRecord))
	s.mux.HandleFunc("GET /projects/{id}/records/{rid}/report.pdf", s.authed(s.handleRecordReport))
	s.mux.HandleFunc("POST /projects/{id}/assistant", s.authed(s.handleAsk))
	s.mux.HandleFunc("GET /projects/{id}/assistant/history", s.authed(s.handleHistory))
	s.mux.HandleFunc("DELETE /projects/{id}/assistant/history", s.authed(s.handleClearHistory))

	s.mux.HandleFunc("GET /map", s.authed(s.handleMapPage))
	s.mux.HandleFunc("GET /api/map", s.authed(s.handleMapPoints))
	s.mux.HandleFunc("GET /api/stats", s.authed(s.handleStats))
	s.mux.HandleFunc("GET /events", s.authed(s.handleEvents))
	s.mux.HandleFunc("GET /search", s.authed(s.handleSearch))
	s.mux.HandleFunc("GET /weather", s.authed(s.handleWeather))
	s.mux.HandleFunc("GET /profile", s.authed(s.handleProfile))
	s.mux.HandleFunc("POST /profile", s.authed(s.handleUpdateProfile))
	s.mux.HandleFunc("GET /settings", s.authed(s.handleSettingsPage))
	s.mux.HandleFunc("POST /settings", s.authed(s.handleUpdateSettings))
	s.mux.HandleFunc("GET /photos/{key...}", s.authed(s.handleGetPhoto))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline' https://unpkg.com https://fonts.googleapis.com; "+
				"font-src https://fonts.gstatic.com; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		ReadTimeout: 60 * time.Second,
		// Streaming endpoints stay open, so there is no write timeout.
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":        func(key string) string { return s.Bundle.T(lang, key) },
		"humanize": humanizeKey,
		"date":     formatDate,
		"pct":      percent,
		"inc":      func(i int) int { return i + 1 },
	}
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data map[string]any, files ...string) error {
	return s.renderPageStatus(w, http.StatusOK, data, files...)
}

func (s *Server) renderPageStatus(w http.ResponseWriter, status int, data map[string]any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.funcs(s.Settings.Language())).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	data["Theme"] = s.Settings.Theme()
	data["Lang"] = s.Settings.Language()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.funcs(s.Settings.Language())).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	return tmpl.ExecuteTemplate(w, basename, data)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
