package web

import (
	"net/http"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/domain"
)

type chunkEvent struct {
	Text string `json:"text"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// handleAsk streams the assistant's answer as server-sent events: one data
// event per chunk, an "error" event if the backend fails part way, and a
// final "done" event.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, u *domain.User) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	projectID := r.PathValue("id")
	chunks, err := s.Assistant.Ask(r.Context(), u, projectID, r.FormValue("question"), r.FormValue("q"))
	if err != nil {
		s.fail(w, err, "ask assistant")
		return
	}

	sse := newSSEWriter(w)
	for c := range chunks {
		if c.Err != nil {
			s.logger.Error("assistant stream failed", "project_id", projectID, "error", c.Err)
			if err := sse.send("error", errorEvent{Error: "the assistant could not finish its answer"}); err != nil {
				return
			}
			continue
		}
		if err := sse.send("", chunkEvent{Text: c.Text}); err != nil {
			// Client gone; the service stops on the cancelled context.
			return
		}
	}
	_ = sse.send("done", struct{}{})
}

func (s *Server) renderHistory(w http.ResponseWriter, r *http.Request, u *domain.User, projectID string) {
	history, err := s.Assistant.History(r.Context(), u, projectID)
	if err != nil {
		s.fail(w, err, "load conversation history")
		return
	}
	data := map[string]any{"ProjectID": projectID, "History": history}
	if err := s.renderPartial(w, "partials/conversation.html", data); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, u *domain.User) {
	s.renderHistory(w, r, u, r.PathValue("id"))
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request, u *domain.User) {
	projectID := r.PathValue("id")
	if err := s.Assistant.ClearHistory(r.Context(), u, projectID); err != nil {
		s.fail(w, err, "clear conversation history")
		return
	}
	s.renderHistory(w, r, u, projectID)
}
