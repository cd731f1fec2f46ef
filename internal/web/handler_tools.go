package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/settings"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/websearch"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, u *domain.User) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		results []websearch.Result
		errMsg  string
	)
	if query != "" {
		var err error
		results, err = s.Search.Search(r.Context(), query)
		if err != nil {
			s.logger.Warn("web search failed", "error", err)
			errMsg = "Search is unavailable right now."
		}
	}

	data := map[string]any{"Query": query, "Results": results, "Error": errMsg}
	if isHTMX(r) {
		if err := s.renderPartial(w, "partials/search_results.html", data); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	data["User"] = u
	data["ActiveNav"] = "search"
	if err := s.renderPage(w, data, "base.html", "pages/search.html", "partials/search_results.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request, _ *domain.User) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		http.Error(w, "city is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), weatherTimeout)
	defer cancel()
	wx, err := s.Weather.ByCity(ctx, city)
	if err != nil {
		s.logger.Warn("weather lookup failed", "city", city, "error", err)
		http.Error(w, "weather is unavailable", http.StatusBadGateway)
		return
	}
	if err := s.renderPartial(w, "partials/weather.html", wx); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := s.renderPage(w, map[string]any{"User": u, "ActiveNav": "profile"}, "base.html", "pages/profile.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	updated, err := s.Accounts.UpdateProfile(r.Context(), u,
		strings.TrimSpace(r.FormValue("firstName")),
		strings.TrimSpace(r.FormValue("lastName")),
		strings.TrimSpace(r.FormValue("position")),
	)
	if err != nil {
		s.fail(w, err, "update profile")
		return
	}
	if err := s.renderPage(w,
		map[string]any{"User": updated, "Saved": true, "ActiveNav": "profile"},
		"base.html", "pages/profile.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) settingsData(u *domain.User) map[string]any {
	return map[string]any{
		"User":      u,
		"Themes":    settings.Themes,
		"Languages": settings.Languages,
		"ActiveNav": "settings",
	}
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := s.renderPage(w, s.settingsData(u), "base.html", "pages/settings.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	if theme := r.FormValue("theme"); theme != "" {
		if err := s.Settings.SetTheme(theme); err != nil {
			s.settingsError(w, err)
			return
		}
	}
	if lang := r.FormValue("language"); lang != "" {
		if err := s.Settings.SetLanguage(lang); err != nil {
			s.settingsError(w, err)
			return
		}
	}
	s.logger.Info("settings updated", "theme", s.Settings.Theme(), "language", s.Settings.Language())

	// The theme and language apply to the whole page, so reload it.
	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) settingsError(w http.ResponseWriter, err error) {
	if errors.Is(err, settings.ErrUnknownTheme) || errors.Is(err, settings.ErrUnknownLanguage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Error("save settings failed", "error", err)
	http.Error(w, "failed to save settings", http.StatusInternalServerError)
}
