package web

import (
	"net/http"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, u *domain.User) {
	overview, err := s.Workspace.GlobalStats(r.Context(), u)
	if err != nil {
		s.fail(w, err, "load dashboard")
		return
	}
	clients, err := s.Workspace.ListClients(r.Context(), u, "")
	if err != nil {
		s.fail(w, err, "list clients")
		return
	}
	if err := s.renderPage(w,
		map[string]any{"User": u, "Overview": overview, "Clients": clients, "ActiveNav": "dashboard"},
		"base.html", "pages/dashboard.html", "partials/charts.html", "partials/client_list.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request, u *domain.User) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	clients, err := s.Workspace.ListClients(r.Context(), u, query)
	if err != nil {
		s.fail(w, err, "list clients")
		return
	}

	// HTMX partial update: return only the list fragment.
	if isHTMX(r) {
		if err := s.renderPartial(w, "partials/client_list.html", clients); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	if err := s.renderPage(w,
		map[string]any{"User": u, "Clients": clients, "Query": query, "ActiveNav": "clients"},
		"base.html", "pages/clients.html", "partials/client_list.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func clientFromForm(r *http.Request) domain.Client {
	return domain.Client{
		ID:            r.PathValue("id"),
		CompanyName:   strings.TrimSpace(r.FormValue("companyName")),
		CompanyRegNum: strings.TrimSpace(r.FormValue("companyRegNum")),
		CompanyType:   strings.TrimSpace(r.FormValue("companyType")),
		ContactEmail:  strings.TrimSpace(r.FormValue("contactEmail")),
		ContactPerson: strings.TrimSpace(r.FormValue("contactPerson")),
		ContactPhone:  strings.TrimSpace(r.FormValue("contactPhone")),
		Address:       strings.TrimSpace(r.FormValue("address")),
	}
}

// setWarning reports a partial failure, such as an image that did not upload,
// alongside a successful write.
func setWarning(w http.ResponseWriter, warning string) {
	if warning == "" {
		return
	}
	w.Header().Set("X-Xamu-Warning", warning)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	logo, err := s.formUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	saved, err := s.Workspace.CreateClient(r.Context(), u, clientFromForm(r), logo)
	if err != nil {
		s.fail(w, err, "create client")
		return
	}
	setWarning(w, saved.Warning)
	clients, err := s.Workspace.ListClients(r.Context(), u, "")
	if err != nil {
		s.fail(w, err, "list clients")
		return
	}
	if err := s.renderPartial(w, "partials/client_list.html", clients); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleClientDetail(w http.ResponseWriter, r *http.Request, u *domain.User) {
	id := r.PathValue("id")
	client, err := s.Workspace.GetClient(r.Context(), u, id)
	if err != nil {
		s.fail(w, err, "get client")
		return
	}
	projects, err := s.Workspace.ListProjects(r.Context(), u, id)
	if err != nil {
		s.fail(w, err, "list projects")
		return
	}
	if err := s.renderPage(w,
		map[string]any{"User": u, "Client": client, "Projects": projects, "ActiveNav": "clients"},
		"base.html", "pages/client_detail.html", "partials/project_list.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	logo, err := s.formUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	saved, err := s.Workspace.UpdateClient(r.Context(), u, clientFromForm(r), logo)
	if err != nil {
		s.fail(w, err, "update client")
		return
	}
	setWarning(w, saved.Warning)
	w.Header().Set("HX-Redirect", "/clients/"+saved.Value.ID)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := s.Workspace.DeleteClient(r.Context(), u, r.PathValue("id")); err != nil {
		s.fail(w, err, "delete client")
		return
	}
	w.Header().Set("HX-Redirect", "/clients")
	w.WriteHeader(http.StatusOK)
}
