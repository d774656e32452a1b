package services

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breed-gallery/pkg/config"
	"breed-gallery/pkg/dogapi"
	"breed-gallery/pkg/dogapi/dogapitest"
	"breed-gallery/pkg/gallery"
)

func newTestService(t *testing.T) (*Service, *dogapitest.Server) {
	t.Helper()
	srv := dogapitest.NewServer(t,
		map[string][]string{
			"poodle":  {},
			"terrier": {"yorkshire", "irish"},
			"hound":   {"afghan", "basset"},
		},
		map[string][]dogapitest.Size{
			"poodle":            {{Width: 300, Height: 200}, {Width: 200, Height: 300}},
			"terrier/yorkshire": {{Width: 640, Height: 480}},
			"terrier/irish":     {{Width: 10, Height: 10}},
			"terrier":           {{Width: 20, Height: 10}},
			"hound":             {{Width: 30, Height: 10}},
			"hound/afghan":      {{Width: 40, Height: 10}},
			"hound/basset":      {{Width: 50, Height: 10}},
		})

	cfg := config.Default()
	cfg.APIBaseURL = srv.APIURL()
	cfg.ThumbnailSize = 64
	svc := NewService(cfg, dogapi.NewClient(cfg.APIBaseURL, 5*time.Second, nil), nil)
	t.Cleanup(svc.Close)
	return svc, srv
}

func TestService_NewSessionLoadsTree(t *testing.T) {
	svc, srv := newTestService(t)

	sess := svc.NewSession(context.Background())
	page := sess.Snapshot()

	assert.False(t, page.TreeLoading)
	ids := make([]string, len(page.Tree))
	for i, row := range page.Tree {
		ids[i] = row.ID
	}
	assert.Equal(t, []string{"hound", "poodle", "terrier"}, ids)
	assert.True(t, page.Empty)
	assert.False(t, page.Loading)
	assert.Equal(t, DefaultRowHeight, page.Settings.RowHeight)
	assert.True(t, page.Settings.DarkTheme)
	assert.Equal(t, 1, srv.Hits("/api/breeds/list/all"))

	got, err := svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, svc.SessionCount())
}

func TestService_TaxonomyFailureLeavesEmptyTree(t *testing.T) {
	svc, srv := newTestService(t)
	srv.FailList()

	page := svc.NewSession(context.Background()).Snapshot()

	assert.False(t, page.TreeLoading)
	assert.Empty(t, page.Tree)
}

func TestService_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Session("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := svc.NewSession(context.Background())
	svc.EndSession(sess.ID)
	_, err = svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_PoodleAndYorkshireScenario(t *testing.T) {
	svc, srv := newTestService(t)
	sess := svc.NewSession(context.Background())

	sess.Dispatch(ToggleBreed{ID: "poodle"})
	sess.Dispatch(ToggleBreed{ID: "terrier/yorkshire"})
	sess.Wait()

	assert.Equal(t, map[string]int{
		"/api/breed/poodle/images":            1,
		"/api/breed/terrier/yorkshire/images": 1,
	}, srv.ListHits())

	page := sess.Snapshot()
	assert.Equal(t, []string{"poodle", "terrier/yorkshire"}, page.Selected)
	require.Len(t, page.Photos, 3)
	for _, p := range page.Photos {
		assert.Contains(t, []string{"poodle", "terrier/yorkshire"}, p.Breed)
		assert.Positive(t, p.Width)
		assert.Positive(t, p.Height)
	}
	assert.Equal(t, "poodle-0", page.Photos[0].Label)
	assert.Equal(t, 300, page.Photos[0].Width)
	assert.Equal(t, 200, page.Photos[0].Height)
	assert.Equal(t, "terrier/yorkshire-0", page.Photos[2].Label)
	assert.False(t, page.Loading)
	assert.False(t, page.Empty)
}

func TestSession_ParentToggleSelectsFamily(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.NewSession(context.Background())

	sess.Dispatch(ToggleBreed{ID: "hound"})
	sess.Wait()

	page := sess.Snapshot()
	assert.ElementsMatch(t, []string{"hound", "hound/afghan", "hound/basset"}, page.Selected)
	assert.Len(t, page.Photos, 3)

	sess.Dispatch(ToggleBreed{ID: "hound/basset"})
	sess.Wait()
	page = sess.Snapshot()
	assert.ElementsMatch(t, []string{"hound/afghan"}, page.Selected)
	assert.True(t, page.Tree[0].Indeterminate)
	assert.False(t, page.Tree[0].Checked)
}

func TestSession_DeselectAllWhileFetching(t *testing.T) {
	svc, srv := newTestService(t)
	sess := svc.NewSession(context.Background())

	srv.Hold()
	sess.Dispatch(ToggleBreed{ID: "poodle"})
	sess.Dispatch(ToggleBreed{ID: "terrier"})
	assert.True(t, sess.Snapshot().Loading)

	sess.Dispatch(DeselectAllBreeds{})
	srv.Release()
	sess.Wait()

	page := sess.Snapshot()
	assert.Empty(t, page.Selected)
	assert.False(t, page.Loading)
	assert.True(t, page.Empty)
	assert.Empty(t, page.Photos)
}

func TestSession_SearchAndExpand(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.NewSession(context.Background())

	sess.Dispatch(SearchBreeds{Text: "afgh"})
	page := sess.Snapshot()
	require.Len(t, page.Tree, 2)
	assert.Equal(t, "hound", page.Tree[0].ID)
	assert.True(t, page.Tree[0].Expanded)
	assert.Equal(t, "hound/afghan", page.Tree[1].ID)
	assert.Equal(t, "afgh", page.Search)

	sess.Dispatch(ExpandBreed{ID: "hound", Expanded: false})
	assert.Len(t, sess.Snapshot().Tree, 1)

	sess.Dispatch(SearchBreeds{Text: ""})
	page = sess.Snapshot()
	assert.Len(t, page.Tree, 3)
	for _, row := range page.Tree {
		assert.False(t, row.Expanded)
	}
}

func TestSession_Settings(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.NewSession(context.Background())

	sess.Dispatch(SetRowHeight{Height: 1000})
	assert.Equal(t, MaxRowHeight, sess.Settings().RowHeight)
	sess.Dispatch(SetRowHeight{Height: 3})
	assert.Equal(t, MinRowHeight, sess.Settings().RowHeight)
	sess.Dispatch(SetRowHeight{Height: 123})
	assert.Equal(t, 120, sess.Settings().RowHeight)

	sess.Dispatch(ToggleTheme{})
	assert.False(t, sess.Settings().DarkTheme)

	sess.Dispatch(ToggleBreed{ID: "poodle"})
	sess.Wait()
	sess.Dispatch(SetShuffle{On: true})
	assert.True(t, sess.Settings().Shuffle)
	assert.Len(t, sess.Snapshot().Photos, 2)
	sess.Dispatch(SetShuffle{On: false})
	assert.Equal(t, "poodle-0", sess.Snapshot().Photos[0].Label)
}

func TestClampRowHeight(t *testing.T) {
	assert.Equal(t, 50, ClampRowHeight(-1))
	assert.Equal(t, 50, ClampRowHeight(54))
	assert.Equal(t, 60, ClampRowHeight(55))
	assert.Equal(t, 150, ClampRowHeight(150))
	assert.Equal(t, 300, ClampRowHeight(299))
	assert.Equal(t, 300, ClampRowHeight(301))
}

func TestService_ThumbnailAndDownload(t *testing.T) {
	svc, _ := newTestService(t)
	sess := svc.NewSession(context.Background())
	sess.Dispatch(ToggleBreed{ID: "terrier/yorkshire"})
	sess.Wait()

	thumb, err := svc.Thumbnail(context.Background(), sess, 0)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	data, contentType, filename, err := svc.Download(context.Background(), sess, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "terrier-yorkshire-0_640x480.png", filename)

	_, err = svc.Thumbnail(context.Background(), sess, 5)
	assert.ErrorIs(t, err, gallery.ErrPhotoIndex)
}

func TestService_Manifest(t *testing.T) {
	svc, _ := newTestService(t)

	manifest, err := svc.Manifest(context.Background(), []string{"poodle", "unicorn"})
	require.NoError(t, err)
	assert.Equal(t, []string{"poodle", "unicorn"}, manifest.Breeds)
	assert.Len(t, manifest.Photos, 2)

	empty, err := svc.Manifest(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Photos)
	assert.Empty(t, empty.Photos)
}

func TestService_ResolvePhotosCancelled(t *testing.T) {
	svc, srv := newTestService(t)
	srv.Hold()
	defer srv.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := svc.ResolvePhotos(ctx, []string{"poodle"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetSafeFilename(t *testing.T) {
	assert.Equal(t, "hound-afghan-n02088094_1003.jpg",
		getSafeFilename("hound/afghan", "https://images.dog.ceo/breeds/hound-afghan/n02088094_1003.jpg"))
	assert.Equal(t, "poodle-image.jpg", getSafeFilename("poodle", "https://images.dog.ceo/"))
}
