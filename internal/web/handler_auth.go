package web

import (
	"errors"
	"net/http"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/service"
)

func (s *Server) renderAuthPage(w http.ResponseWriter, page, errMsg string, status int, email string) {
	if err := s.renderPageStatus(w, status,
		map[string]any{"Error": errMsg, "Email": email},
		"base.html", "pages/"+page+".html",
	); err != nil {
		s.logger.Error("render page failed", "page", page, "error", err)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderAuthPage(w, "login", "", http.StatusOK, "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	sess, err := s.Accounts.Login(r.Context(), email, r.FormValue("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		s.renderAuthPage(w, "login", "Invalid email or password", http.StatusUnauthorized, email)
		return
	}
	if err != nil {
		s.fail(w, err, "sign in")
		return
	}
	s.setSession(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderAuthPage(w, "register", "", http.StatusOK, "")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	reg := service.Registration{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Position:  r.FormValue("position"),
	}
	sess, err := s.Accounts.Register(r.Context(), reg)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		s.renderAuthPage(w, "register", "That email is already registered", http.StatusConflict, reg.Email)
		return
	case errors.Is(err, service.ErrValidation):
		s.renderAuthPage(w, "register", err.Error(), http.StatusBadRequest, reg.Email)
		return
	case err != nil:
		s.fail(w, err, "register")
		return
	}
	s.setSession(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.Accounts.Logout(r.Context(), c.Value); err != nil {
			s.logger.Warn("logout failed", "error", err)
		}
	}
	s.clearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
