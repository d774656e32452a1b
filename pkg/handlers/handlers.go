package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eknkc/pug"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"breed-gallery/pkg/gallery"
	"breed-gallery/pkg/logging"
	"breed-gallery/pkg/services"
)

// SessionCookie is the name of the cookie carrying the session identifier
const SessionCookie = "gallery_session"

type sessionKey struct{}

// Server serves the gallery pages and the JSON API
type Server struct {
	svc       *services.Service
	logger    *zap.Logger
	viewsDir  string
	publicDir string
}

// NewRouter builds the router of the web application.
// Templates are read from viewsDir, static files from publicDir.
func NewRouter(svc *services.Service, logger *zap.Logger, viewsDir, publicDir string) *mux.Router {
	s := &Server{
		svc:       svc,
		logger:    logging.OrNop(logger),
		viewsDir:  viewsDir,
		publicDir: publicDir,
	}

	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(publicDir))))

	pages := r.NewRoute().Subrouter()
	pages.Use(s.sessionMiddleware)
	pages.HandleFunc("/", s.GalleryHandler).Methods(http.MethodGet)
	pages.HandleFunc("/photos/{index:[0-9]+}", s.ViewerHandler).Methods(http.MethodGet)
	pages.HandleFunc("/photos/{index:[0-9]+}/download", s.DownloadHandler).Methods(http.MethodGet)
	pages.HandleFunc("/photos/{index:[0-9]+}/thumbnail", s.ThumbnailHandler).Methods(http.MethodGet)

	pages.HandleFunc("/api/state", s.StateHandler).Methods(http.MethodGet)
	pages.HandleFunc("/api/breeds/toggle", s.ToggleBreedHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/breeds/clear", s.DeselectAllHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/breeds/search", s.SearchHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/breeds/expand", s.ExpandHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/settings/size", s.SizeHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/settings/shuffle", s.ShuffleHandler).Methods(http.MethodPost)
	pages.HandleFunc("/api/settings/theme", s.ThemeHandler).Methods(http.MethodPost)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// sessionMiddleware attaches the caller's session to the request.
// Only GET requests create a session; actions without one are rejected.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *services.Session
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = s.svc.Session(cookie.Value)
		}
		if sess == nil && r.Method != http.MethodGet {
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}
		if sess == nil {
			sess = s.svc.NewSession(r.Context())
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *services.Session {
	return r.Context().Value(sessionKey{}).(*services.Session)
}

// GalleryHandler handles requests for the gallery index page
func (s *Server) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Generating Index")
	s.render(w, "index.pug", newIndexView(sessionFrom(r).Snapshot()))
}

// ViewerHandler handles requests for the full-screen photo viewer
func (s *Server) ViewerHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	index, _ := strconv.Atoi(mux.Vars(r)["index"])

	photo, total, err := sess.PhotoAt(index)
	if err != nil {
		s.logger.Debug("Photo not found", zap.Int("index", index), zap.Error(err))
		http.NotFound(w, r)
		return
	}

	viewer := buildViewer(photo, index, total, sess.Settings(), r.URL.Query().Get("slideshow") == "1")
	s.render(w, "viewer.pug", newViewerView(viewer))
}

// DownloadHandler streams the original image as an attachment
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])

	data, contentType, filename, err := s.svc.Download(r.Context(), sessionFrom(r), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Error writing download", zap.Error(err))
	}
}

// ThumbnailHandler serves the resized image used by the viewer thumbnail strip
func (s *Server) ThumbnailHandler(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])

	data, err := s.svc.Thumbnail(r.Context(), sessionFrom(r), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Error writing thumbnail", zap.Error(err))
	}
}

// HealthHandler reports that the server is up
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"sessions": s.svc.SessionCount(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	template, err := pug.CompileFile(filepath.Join(s.viewsDir, name), pug.Options{})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		s.logger.Error("Template error", zap.String("template", name), zap.Error(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := template.Execute(w, data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		s.logger.Error("Template execution error", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gallery.ErrPhotoIndex):
		http.NotFound(w, r)
	case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
		s.logger.Debug("Request cancelled", zap.String("uri", r.RequestURI))
	default:
		s.logger.Error("Request failed", zap.String("uri", r.RequestURI), zap.Error(err))
		http.Error(w, "Bad gateway", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
