// Package gallery keeps the photo collection of a session in step with the
// selected breeds. Every selection change starts a new generation of fetches.
// Results of older generations are discarded when they arrive.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"breed-gallery/pkg/logging"
	"breed-gallery/pkg/metrics"
	"breed-gallery/pkg/models"
)

// ErrPhotoIndex is returned when a photo index is outside the collection
var ErrPhotoIndex = errors.New("photo index out of range")

// Source provides image URLs per breed and the pixel size of an image
type Source interface {
	BreedImages(ctx context.Context, breed string) ([]string, error)
	ImageSize(ctx context.Context, imageURL string) (width, height int, err error)
}

// State is a snapshot of the collection
type State struct {
	Generation uint64
	Photos     []models.Photo
	Pending    []string
	Loading    bool
}

// Empty reports whether the empty state should be shown
func (s State) Empty() bool {
	return !s.Loading && len(s.Photos) == 0
}

// Gallery is the photo collection of one session
type Gallery struct {
	source  Source
	workers int
	logger  *zap.Logger

	mu         sync.Mutex
	generation uint64
	photos     []models.Photo
	seen       map[string]string
	pending    map[string]bool
	shuffle    bool
	cancel     context.CancelFunc
	closed     bool

	wg sync.WaitGroup
}

// New creates an empty gallery resolving at most workers images of a breed at a time
func New(source Source, workers int, logger *zap.Logger) *Gallery {
	if workers < 1 {
		workers = 1
	}
	return &Gallery{
		source:  source,
		workers: workers,
		logger:  logging.OrNop(logger),
		seen:    map[string]string{},
		pending: map[string]bool{},
	}
}

// Reconcile clears the collection and starts fetching the photos of every
// selected breed. It returns the new generation.
func (g *Gallery) Reconcile(selection []string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.generation++
	g.photos = nil
	g.seen = map[string]string{}
	g.pending = map[string]bool{}
	if g.closed {
		return g.generation
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	generation := g.generation
	for _, breed := range selection {
		if breed == "" || g.pending[breed] {
			continue
		}
		g.pending[breed] = true
		g.wg.Add(1)
		go g.load(ctx, generation, breed)
	}
	g.logger.Debug("Reconciling gallery",
		zap.Uint64("generation", generation),
		zap.Strings("breeds", selection))
	return generation
}

func (g *Gallery) load(ctx context.Context, generation uint64, breed string) {
	defer g.wg.Done()

	metrics.BreedFetches.Inc()
	urls, err := g.source.BreedImages(ctx, breed)
	if err != nil {
		if ctx.Err() == nil {
			metrics.BreedFetchFailures.Inc()
			g.logger.Error("Error fetching breed images", zap.String("breed", breed), zap.Error(err))
		}
		g.merge(generation, breed, nil)
		return
	}

	g.merge(generation, breed, g.resolve(ctx, breed, urls))
}

// resolve loads the dimensions of every image of a breed. Images that cannot
// be loaded are dropped.
func (g *Gallery) resolve(ctx context.Context, breed string, urls []string) []models.Photo {
	resolved := make([]*models.Photo, len(urls))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, url := range urls {
		i, url := i, url
		eg.Go(func() error {
			width, height, err := g.source.ImageSize(egCtx, url)
			if err != nil {
				if egCtx.Err() == nil {
					metrics.ImageFailures.Inc()
					g.logger.Warn("Dropping image", zap.String("breed", breed), zap.String("url", url), zap.Error(err))
				}
				return nil
			}
			metrics.ImagesResolved.Inc()
			resolved[i] = &models.Photo{
				Src:    url,
				Breed:  breed,
				Width:  width,
				Height: height,
				Title:  breed,
				Label:  SortableLabel(breed, i),
				Index:  i,
			}
			return nil
		})
	}
	_ = eg.Wait()

	photos := make([]models.Photo, 0, len(urls))
	for _, photo := range resolved {
		if photo != nil {
			photos = append(photos, *photo)
		}
	}
	return photos
}

func (g *Gallery) merge(generation uint64, breed string, photos []models.Photo) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if generation != g.generation {
		metrics.StaleBatches.Inc()
		g.logger.Debug("Discarding stale batch",
			zap.String("breed", breed),
			zap.Uint64("generation", generation),
			zap.Uint64("current", g.generation))
		return
	}
	delete(g.pending, breed)

	// a URL fetched by several breeds keeps the copy with the lowest label
	fresh := make([]models.Photo, 0, len(photos))
	for _, photo := range photos {
		label, dup := g.seen[photo.Src]
		if !dup {
			g.seen[photo.Src] = photo.Label
			fresh = append(fresh, photo)
			continue
		}
		if !naturalLess(photo.Label, label) {
			continue
		}
		g.seen[photo.Src] = photo.Label
		if i := slices.IndexFunc(fresh, func(p models.Photo) bool { return p.Src == photo.Src }); i >= 0 {
			fresh[i] = photo
			continue
		}
		if i := slices.IndexFunc(g.photos, func(p models.Photo) bool { return p.Src == photo.Src }); i >= 0 {
			g.photos[i] = photo
		}
	}

	if g.shuffle {
		Shuffle(fresh)
		g.photos = append(g.photos, fresh...)
		return
	}
	g.photos = append(g.photos, fresh...)
	SortByLabel(g.photos)
}

// SetShuffle randomly permutes the whole collection when on, and sorts it by label when off
func (g *Gallery) SetShuffle(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.shuffle = on
	if on {
		Shuffle(g.photos)
		return
	}
	SortByLabel(g.photos)
}

// Snapshot returns a copy of the current collection
func (g *Gallery) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending := make([]string, 0, len(g.pending))
	for breed := range g.pending {
		pending = append(pending, breed)
	}
	sort.Strings(pending)

	return State{
		Generation: g.generation,
		Photos:     slices.Clone(g.photos),
		Pending:    pending,
		Loading:    len(pending) > 0,
	}
}

// Photo returns the photo at index
func (g *Gallery) Photo(index int) (models.Photo, error) {
	photo, _, err := g.PhotoAt(index)
	return photo, err
}

// PhotoAt returns the photo at index together with the size of the collection it was read from
func (g *Gallery) PhotoAt(index int) (models.Photo, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := len(g.photos)
	if index < 0 || index >= total {
		return models.Photo{}, total, fmt.Errorf("%w: %d of %d", ErrPhotoIndex, index, total)
	}
	return g.photos[index], total, nil
}

// Wait blocks until every fetch started so far, of any generation, has finished
func (g *Gallery) Wait() {
	g.wg.Wait()
}

// Close cancels in-flight fetches. Later calls to Reconcile start nothing.
func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
