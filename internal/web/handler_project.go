package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/report"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	img, err := s.formUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p := domain.Project{
		ProjectName:  r.FormValue("projectName"),
		CompanyEmail: strings.TrimSpace(r.FormValue("companyEmail")),
	}
	saved, err := s.Workspace.CreateProject(r.Context(), u, r.PathValue("id"), p, img)
	if err != nil {
		s.fail(w, err, "create project")
		return
	}
	setWarning(w, saved.Warning)
	projects, err := s.Workspace.ListProjects(r.Context(), u, r.PathValue("id"))
	if err != nil {
		s.fail(w, err, "list projects")
		return
	}
	if err := s.renderPartial(w, "partials/project_list.html", projects); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request, u *domain.User) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view, err := s.Workspace.ProjectView(r.Context(), u, r.PathValue("id"), query)
	if err != nil {
		s.fail(w, err, "load project")
		return
	}

	if isHTMX(r) {
		if err := s.renderPartial(w, "partials/record_list.html", view); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}
	if err := s.renderPage(w,
		map[string]any{
			"User":        u,
			"View":        view,
			"Query":       query,
			"Overview":    map[string]any{"Stats": view.Stats, "Charts": view.Charts},
			"Biophysical": domain.BiophysicalAttributes{}.Fields(),
			"Impacts":     domain.PhaseImpacts{}.Fields(),
			"FormAction":  "/projects/" + view.Project.ID + "/records",
			"ActiveNav":   "clients",
		},
		"base.html", "pages/project.html", "partials/record_list.html", "partials/charts.html", "partials/record_form.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	img, err := s.formUpload(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p := domain.Project{
		ID:           r.PathValue("id"),
		ProjectName:  r.FormValue("projectName"),
		CompanyEmail: strings.TrimSpace(r.FormValue("companyEmail")),
	}
	saved, err := s.Workspace.UpdateProject(r.Context(), u, p, img)
	if err != nil {
		s.fail(w, err, "update project")
		return
	}
	setWarning(w, saved.Warning)
	w.Header().Set("HX-Redirect", "/projects/"+saved.Value.ID)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request, u *domain.User) {
	id := r.PathValue("id")
	p, err := s.Workspace.GetProject(r.Context(), u, id)
	if err != nil {
		s.fail(w, err, "delete project")
		return
	}
	if err := s.Workspace.DeleteProject(r.Context(), u, id); err != nil {
		s.fail(w, err, "delete project")
		return
	}
	target := "/clients"
	if p.ClientID != "" {
		target += "/" + p.ClientID
	}
	w.Header().Set("HX-Redirect", target)
	w.WriteHeader(http.StatusOK)
}

// attachment sets a download header with an RFC 5987 encoded file name.
func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, asciiName(name), url.PathEscape(name)))
}

func asciiName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}

func (s *Server) handleExportProject(w http.ResponseWriter, r *http.Request, u *domain.User) {
	view, err := s.Workspace.ProjectView(r.Context(), u, r.PathValue("id"), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, err, "export project")
		return
	}
	name := fmt.Sprintf("XAMU_%s_%s_%s.xlsx", view.ClientName(), view.Project.ProjectName, s.now().Format("2006-01-02"))
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name)
	if err := report.ProjectWorkbook(w, view.Project, view.Records); err != nil {
		s.logger.Error("export project failed", "project_id", view.Project.ID, "error", err)
	}
}
