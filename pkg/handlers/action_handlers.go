package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"breed-gallery/pkg/services"
)

// StateHandler returns the session snapshot as JSON
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, sessionFrom(r).Snapshot())
}

// ToggleBreedHandler handles API requests to check or uncheck a breed
func (s *Server) ToggleBreedHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		http.Error(w, "Missing breed id", http.StatusBadRequest)
		return
	}

	s.logger.Debug("Toggling breed", zap.String("id", req.ID))
	s.dispatch(w, r, services.ToggleBreed{ID: req.ID})
}

// DeselectAllHandler handles API requests to clear the selection
func (s *Server) DeselectAllHandler(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, services.DeselectAllBreeds{})
}

// SearchHandler handles API requests to filter the breed tree
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, services.SearchBreeds{Text: req.Text})
}

// ExpandHandler handles API requests to expand or collapse a parent breed
func (s *Server) ExpandHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string `json:"id"`
		Expanded bool   `json:"expanded"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, services.ExpandBreed{ID: req.ID, Expanded: req.Expanded})
}

// SizeHandler handles API requests to change the target row height
func (s *Server) SizeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowHeight *int `json:"rowHeight"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.RowHeight == nil {
		http.Error(w, "Missing rowHeight", http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, services.SetRowHeight{Height: *req.RowHeight})
}

// ShuffleHandler handles API requests to turn shuffling on or off
func (s *Server) ShuffleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shuffle bool `json:"shuffle"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, services.SetShuffle{On: req.Shuffle})
}

// ThemeHandler handles API requests to flip the theme
func (s *Server) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, services.ToggleTheme{})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, msg services.Message) {
	sess := sessionFrom(r)
	sess.Dispatch(msg)
	writeJSON(w, sess.Snapshot())
}
