package web

import (
	"net/http"
	"time"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

const keepAliveInterval = 30 * time.Second

func (s *Server) handleMapPage(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := s.renderPage(w, map[string]any{"User": u, "ActiveNav": "map"}, "base.html", "pages/map.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleMapPoints(w http.ResponseWriter, r *http.Request, u *domain.User) {
	points, err := s.Workspace.MapPoints(r.Context(), u)
	if err != nil {
		s.fail(w, err, "load map points")
		return
	}
	s.writeJSON(w, points)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, u *domain.User) {
	overview, err := s.Workspace.GlobalStats(r.Context(), u)
	if err != nil {
		s.fail(w, err, "load statistics")
		return
	}
	s.writeJSON(w, overview)
}

// handleEvents pushes a fresh overview whenever the user's clients or
// projects change, until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, u *domain.User) {
	updates, err := s.Workspace.Subscribe(r.Context(), u)
	if err != nil {
		s.fail(w, err, "subscribe to updates")
		return
	}
	sse := newSSEWriter(w)
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case overview, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.send("stats", overview); err != nil {
				return
			}
		case <-ticker.C:
			if err := sse.comment("keep-alive"); err != nil {
				return
			}
		}
	}
}
