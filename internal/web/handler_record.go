package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/report"
)

const weatherTimeout = 5 * time.Second

// recordFromForm reads a field record from the posted form. Blank or
// malformed coordinates are stored as zero, meaning "no coordinates".
func recordFromForm(r *http.Request) domain.FieldRecord {
	v := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	coord := func(name string) float64 {
		f, err := strconv.ParseFloat(v(name), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return domain.FieldRecord{
		ID: r.PathValue("rid"),
		Location: domain.GeoLocation{
			Lat:         coord("lat"),
			Lng:         coord("lng"),
			Description: v("description"),
		},
		Biophysical: domain.BiophysicalAttributes{
			Elevation:               v("elevation"),
			Ecoregion:               v("ecoregion"),
			MeanAnnualPrecipitation: v("meanAnnualPrecipitation"),
			RainfallSeasonality:     v("rainfallSeasonality"),
			Evapotranspiration:      v("evapotranspiration"),
			Geology:                 v("geology"),
			WaterManagementArea:     v("waterManagementArea"),
			SoilErodibility:         v("soilErodibility"),
			VegetationType:          v("vegetationType"),
			ConservationStatus:      v("conservationStatus"),
			FepaFeatures:            v("fepaFeatures"),
		},
		Impacts: &domain.PhaseImpacts{
			RunoffHardSurfaces: v("runoffHardSurfaces"),
			RunoffSepticTanks:  v("runoffSepticTanks"),
			SedimentInput:      v("sedimentInput"),
			FloodPeaks:         v("floodPeaks"),
			Pollution:          v("pollution"),
			WeedsIAP:           v("weedsIAP"),
		},
	}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	uploads, err := s.formUploads(r, "images")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	projectID := r.PathValue("id")
	saved, err := s.Workspace.CreateRecord(r.Context(), u, projectID, recordFromForm(r), uploads)
	if err != nil {
		s.fail(w, err, "create record")
		return
	}
	setWarning(w, saved.Warning)
	s.logger.Info("record created", "project_id", projectID, "record_id", saved.Value.ID, "images", len(saved.Value.Images))

	view, err := s.Workspace.ProjectView(r.Context(), u, projectID, "")
	if err != nil {
		s.fail(w, err, "load project")
		return
	}
	if err := s.renderPartial(w, "partials/record_list.html", view); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// currentWeather looks up weather at the record's coordinates. Weather is
// decoration, so failures are logged and yield nil.
func (s *Server) currentWeather(ctx context.Context, loc domain.GeoLocation) *domain.Weather {
	if s.Weather == nil || !loc.HasCoordinates() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()
	wx, err := s.Weather.Current(ctx, loc)
	if err != nil {
		s.logger.Warn("weather lookup failed", "error", err)
		return nil
	}
	return wx
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request, u *domain.User) {
	rec, project, err := s.Workspace.GetRecord(r.Context(), u, r.PathValue("id"), r.PathValue("rid"))
	if err != nil {
		s.fail(w, err, "get record")
		return
	}
	impacts := domain.PhaseImpacts{}
	if rec.Impacts != nil {
		impacts = *rec.Impacts
	}
	if err := s.renderPage(w,
		map[string]any{
			"User":        u,
			"Project":     project,
			"Record":      rec,
			"Biophysical": rec.Biophysical.Fields(),
			"Impacts":     impacts.Fields(),
			"FormAction":  "/projects/" + project.ID + "/records/" + rec.ID,
			"Weather":     s.currentWeather(r.Context(), rec.Location),
			"ActiveNav":   "clients",
		},
		"base.html", "pages/record.html", "partials/weather.html", "partials/record_form.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	uploads, err := s.formUploads(r, "images")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	projectID := r.PathValue("id")
	saved, err := s.Workspace.UpdateRecord(r.Context(), u, projectID, recordFromForm(r), uploads)
	if err != nil {
		s.fail(w, err, "update record")
		return
	}
	setWarning(w, saved.Warning)
	w.Header().Set("HX-Redirect", "/projects/"+projectID+"/records/"+saved.Value.ID)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, u *domain.User) {
	projectID := r.PathValue("id")
	if err := s.Workspace.DeleteRecord(r.Context(), u, projectID, r.PathValue("rid")); err != nil {
		s.fail(w, err, "delete record")
		return
	}
	w.Header().Set("HX-Redirect", "/projects/"+projectID)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRecordReport(w http.ResponseWriter, r *http.Request, u *domain.User) {
	view, err := s.Workspace.ProjectView(r.Context(), u, r.PathValue("id"), "")
	if err != nil {
		s.fail(w, err, "load project")
		return
	}
	rid := r.PathValue("rid")
	var rec *domain.FieldRecord
	for i := range view.Records {
		if view.Records[i].ID == rid {
			rec = &view.Records[i]
			break
		}
	}
	if rec == nil {
		http.NotFound(w, r)
		return
	}

	rep := report.RecordReport{
		Client:      view.Client,
		Project:     view.Project,
		Record:      *rec,
		Weather:     s.currentWeather(r.Context(), rec.Location),
		GeneratedAt: s.now(),
	}
	attachment(w, "application/pdf", rep.FileName())
	if err := report.RecordPDF(w, rep); err != nil {
		s.logger.Error("record report failed", "record_id", rid, "error", err)
	}
}
