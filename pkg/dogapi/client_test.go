package dogapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breed-gallery/pkg/dogapi/dogapitest"
)

func newFake(t *testing.T) (*dogapitest.Server, *Client) {
	t.Helper()
	srv := dogapitest.NewServer(t,
		map[string][]string{"hound": {"afghan", "basset"}, "poodle": {}},
		map[string][]dogapitest.Size{
			"poodle":       {{Width: 40, Height: 30}, {Width: 10, Height: 20}},
			"hound/afghan": {{Width: 5, Height: 7}},
		})
	return srv, NewClient(srv.APIURL(), 5*time.Second, nil)
}

func TestClient_ListBreeds(t *testing.T) {
	_, client := newFake(t)

	breeds, err := client.ListBreeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"afghan", "basset"}, breeds["hound"])
	assert.Empty(t, breeds["poodle"])
	assert.Len(t, breeds, 2)
}

func TestClient_ListBreedsFailure(t *testing.T) {
	srv, client := newFake(t)
	srv.FailList()

	_, err := client.ListBreeds(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_BreedImages(t *testing.T) {
	srv, client := newFake(t)

	t.Run("Breed", func(t *testing.T) {
		urls, err := client.BreedImages(context.Background(), "poodle")
		require.NoError(t, err)
		assert.Equal(t, []string{srv.ImageURL("poodle", 0), srv.ImageURL("poodle", 1)}, urls)
		assert.Equal(t, 1, srv.Hits("/api/breed/poodle/images"))
	})

	t.Run("SubBreed", func(t *testing.T) {
		urls, err := client.BreedImages(context.Background(), "hound/afghan")
		require.NoError(t, err)
		assert.Len(t, urls, 1)
		assert.Equal(t, 1, srv.Hits("/api/breed/hound/afghan/images"))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := client.BreedImages(context.Background(), "unicorn")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, id := range []string{"", "a//b", "a/b/c", "/a"} {
			_, err := client.BreedImages(context.Background(), id)
			assert.ErrorIs(t, err, ErrInvalidBreed, id)
		}
	})
}

func TestClient_ImageSize(t *testing.T) {
	srv, client := newFake(t)

	w, h, err := client.ImageSize(context.Background(), srv.ImageURL("poodle", 0))
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)

	srv.BreakImage(srv.ImageURL("poodle", 1))
	_, _, err = client.ImageSize(context.Background(), srv.ImageURL("poodle", 1))
	assert.Error(t, err)
}

func TestClient_FetchImage(t *testing.T) {
	srv, client := newFake(t)

	data, contentType, err := client.FetchImage(context.Background(), srv.ImageURL("hound/afghan", 0))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "image/png", http.DetectContentType(data))
}

func TestClient_FetchImageTooLarge(t *testing.T) {
	srv, client := newFake(t)
	url := srv.ImageURL("hound/afghan", 0)

	data, _, err := client.FetchImage(context.Background(), url)
	require.NoError(t, err)

	client.maxBytes = int64(len(data))
	_, _, err = client.FetchImage(context.Background(), url)
	require.NoError(t, err)

	client.maxBytes = int64(len(data)) - 1
	_, _, err = client.FetchImage(context.Background(), url)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestClient_CancelledContext(t *testing.T) {
	_, client := newFake(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListBreeds(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
