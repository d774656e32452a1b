package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"breed-gallery/pkg/breedtree"
	"breed-gallery/pkg/gallery"
	"breed-gallery/pkg/models"
)

const (
	MinRowHeight     = 50
	MaxRowHeight     = 300
	RowHeightStep    = 10
	DefaultRowHeight = 150
)

// Message is a user action dispatched to a session
type Message interface {
	isMessage()
}

// ToggleBreed flips the checkbox of a breed or sub-breed
type ToggleBreed struct{ ID string }

// DeselectAllBreeds clears the selection
type DeselectAllBreeds struct{}

// SearchBreeds filters the breed tree
type SearchBreeds struct{ Text string }

// ExpandBreed expands or collapses a parent breed
type ExpandBreed struct {
	ID       string
	Expanded bool
}

// SetRowHeight changes the target row height of the photo grid
type SetRowHeight struct{ Height int }

// SetShuffle turns photo shuffling on or off
type SetShuffle struct{ On bool }

// ToggleTheme flips between the dark and the light theme
type ToggleTheme struct{}

func (ToggleBreed) isMessage()       {}
func (DeselectAllBreeds) isMessage() {}
func (SearchBreeds) isMessage()      {}
func (ExpandBreed) isMessage()       {}
func (SetRowHeight) isMessage()      {}
func (SetShuffle) isMessage()        {}
func (ToggleTheme) isMessage()       {}

// Session owns the application state of one user: the breed tree view, the
// selection, the view settings and the photo collection
type Session struct {
	ID string

	mu          sync.Mutex
	view        *breedtree.View
	treeLoading bool
	selection   breedtree.Selection
	settings    models.Settings
	gallery     *gallery.Gallery
	logger      *zap.Logger
}

func newSession(id string, source gallery.Source, workers int, logger *zap.Logger) *Session {
	return &Session{
		ID:          id,
		view:        breedtree.NewView(nil),
		treeLoading: true,
		selection:   breedtree.Selection{},
		settings: models.Settings{
			RowHeight: DefaultRowHeight,
			DarkTheme: true,
		},
		gallery: gallery.New(source, workers, logger.With(zap.String("session", id))),
		logger:  logger.With(zap.String("session", id)),
	}
}

// mount fetches the taxonomy once. A failure leaves the tree empty.
func (s *Session) mount(ctx context.Context, lister BreedLister) {
	taxonomy, err := lister.ListBreeds(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.treeLoading = false
	if err != nil {
		s.logger.Error("Error fetching breeds", zap.Error(err))
		return
	}
	s.view = breedtree.NewView(breedtree.Build(taxonomy))
	s.logger.Debug("Breed tree loaded", zap.Int("breeds", len(taxonomy)))
}

// Dispatch applies msg to the session state
func (s *Session) Dispatch(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := msg.(type) {
	case ToggleBreed:
		s.applySelection(breedtree.Reduce(s.view.Source(), s.selection, breedtree.Toggle(m.ID)))
	case DeselectAllBreeds:
		s.applySelection(breedtree.Reduce(s.view.Source(), s.selection, breedtree.DeselectAll()))
	case SearchBreeds:
		s.view.Search(m.Text)
	case ExpandBreed:
		s.view.SetExpanded(m.ID, m.Expanded)
	case SetRowHeight:
		s.settings.RowHeight = ClampRowHeight(m.Height)
	case SetShuffle:
		s.settings.Shuffle = m.On
		s.gallery.SetShuffle(m.On)
	case ToggleTheme:
		s.settings.DarkTheme = !s.settings.DarkTheme
	default:
		s.logger.Warn("Ignoring unknown message", zap.Any("message", msg))
	}
}

func (s *Session) applySelection(next breedtree.Selection) {
	changed := len(next) != len(s.selection)
	for i := 0; !changed && i < len(next); i++ {
		changed = next[i] != s.selection[i]
	}
	s.selection = next
	if changed {
		s.gallery.Reconcile(next)
	}
}

// Snapshot returns an immutable copy of the session state
func (s *Session) Snapshot() models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.gallery.Snapshot()
	return models.Page{
		SessionID:     s.ID,
		Search:        s.view.SearchText(),
		Tree:          s.view.Rows(s.selection),
		TreeLoading:   s.treeLoading,
		Selected:      append([]string{}, s.selection...),
		Settings:      s.settings,
		Photos:        state.Photos,
		Loading:       state.Loading,
		Empty:         state.Empty(),
		MinRowHeight:  MinRowHeight,
		MaxRowHeight:  MaxRowHeight,
		RowHeightStep: RowHeightStep,
	}
}

// Settings returns the current view settings
func (s *Session) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Photo returns the photo at index of the current collection
func (s *Session) Photo(index int) (models.Photo, error) {
	return s.gallery.Photo(index)
}

// PhotoAt returns the photo at index and the size of the collection in one read
func (s *Session) PhotoAt(index int) (models.Photo, int, error) {
	return s.gallery.PhotoAt(index)
}

// Wait blocks until in-flight gallery fetches have finished
func (s *Session) Wait() {
	s.gallery.Wait()
}

// Close cancels in-flight gallery fetches
func (s *Session) Close() {
	s.gallery.Close()
}

// ClampRowHeight bounds h to [MinRowHeight, MaxRowHeight] and rounds it to the slider step
func ClampRowHeight(h int) int {
	if h < MinRowHeight {
		return MinRowHeight
	}
	if h > MaxRowHeight {
		return MaxRowHeight
	}
	return (h + RowHeightStep/2) / RowHeightStep * RowHeightStep
}
