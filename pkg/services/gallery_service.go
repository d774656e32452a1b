package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"breed-gallery/pkg/config"
	"breed-gallery/pkg/dogapi"
	"breed-gallery/pkg/gallery"
	"breed-gallery/pkg/logging"
	"breed-gallery/pkg/metrics"
	"breed-gallery/pkg/models"
)

// ErrSessionNotFound is returned for unknown or expired session identifiers
var ErrSessionNotFound = errors.New("session not found")

// BreedLister provides the breed taxonomy
type BreedLister interface {
	ListBreeds(ctx context.Context) (map[string][]string, error)
}

// API is everything the service needs from the Dog CEO API
type API interface {
	BreedLister
	gallery.Source
	FetchImage(ctx context.Context, imageURL string) ([]byte, string, error)
}

// Service holds the sessions of the web application and the API client they share
type Service struct {
	config   *config.Config
	api      API
	sessions *cache.Cache
	logger   *zap.Logger
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// InitService initializes the default service with the given configuration
func InitService(cfg *config.Config, logger *zap.Logger) *Service {
	once.Do(func() {
		api := dogapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
		defaultService = NewService(cfg, api, logger)
	})
	return defaultService
}

// NewService creates a service using api for every network call
func NewService(cfg *config.Config, api API, logger *zap.Logger) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = config.DefaultSessionTTL
	}
	s := &Service{
		config:   cfg,
		api:      api,
		sessions: cache.New(ttl, ttl/2),
		logger:   logging.OrNop(logger),
	}
	s.sessions.OnEvicted(func(id string, value interface{}) {
		metrics.ActiveSessions.Dec()
		if sess, ok := value.(*Session); ok {
			sess.Close()
		}
		s.logger.Debug("Session evicted", zap.String("session", id))
	})
	return s
}

// NewSession creates a session and loads its breed tree
func (s *Service) NewSession(ctx context.Context) *Session {
	sess := newSession(uuid.NewString(), s.api, s.config.ImageWorkers, s.logger)
	sess.mount(ctx, s.api)

	s.sessions.Set(sess.ID, sess, cache.DefaultExpiration)
	metrics.ActiveSessions.Inc()
	s.logger.Info("Session created", zap.String("session", sess.ID))
	return sess
}

// Session returns the session with the given identifier and extends its lifetime
func (s *Service) Session(id string) (*Session, error) {
	value, found := s.sessions.Get(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess := value.(*Session)
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// EndSession removes a session and cancels its in-flight fetches
func (s *Service) EndSession(id string) {
	s.sessions.Delete(id)
}

// SessionCount returns the number of live sessions
func (s *Service) SessionCount() int {
	return s.sessions.ItemCount()
}

// Close ends every session
func (s *Service) Close() {
	for id := range s.sessions.Items() {
		s.sessions.Delete(id)
	}
}

// Breeds returns the breed taxonomy
func (s *Service) Breeds(ctx context.Context) (map[string][]string, error) {
	return s.api.ListBreeds(ctx)
}

// ResolvePhotos fetches the photos of breeds, resolves their dimensions and
// returns them in label order
func (s *Service) ResolvePhotos(ctx context.Context, breeds []string) ([]models.Photo, error) {
	g := gallery.New(s.api, s.config.ImageWorkers, s.logger)
	defer g.Close()

	g.Reconcile(breeds)
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		g.Close()
		<-done
		return nil, ctx.Err()
	}
	return g.Snapshot().Photos, nil
}

// Manifest builds the exported description of the photos of breeds
func (s *Service) Manifest(ctx context.Context, breeds []string) (models.Manifest, error) {
	photos, err := s.ResolvePhotos(ctx, breeds)
	if err != nil {
		return models.Manifest{}, err
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	return models.Manifest{Breeds: breeds, Photos: photos}, nil
}
