package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
)

const sessionCookie = "xamu_session"

type userHandler func(w http.ResponseWriter, r *http.Request, u *domain.User)

// authed resolves the session cookie before calling h. Pages redirect to
// /login when there is no valid session; htmx and API calls get 401.
func (s *Server) authed(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}
		u, err := s.Accounts.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidCredentials) {
				s.logger.Error("session lookup failed", "error", err)
			}
			s.unauthenticated(w, r)
			return
		}
		h(w, r, u)
	}
}

func (s *Server) unauthenticated(w http.ResponseWriter, r *http.Request) {
	switch {
	case isHTMX(r):
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
	case strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/events":
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (s *Server) setSession(w http.ResponseWriter, sess *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// fail maps a service error to a status code. Only validation messages are
// shown to the user; anything unexpected is logged and reported generically.
func (s *Server) fail(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, assistant.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		s.logger.Error(action+" failed", "error", err)
		http.Error(w, "failed to "+action, http.StatusInternalServerError)
	}
}
