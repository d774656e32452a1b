// Package dogapitest provides an in-process fake of the Dog CEO API for tests.
package dogapitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Size is the pixel size of a fake image
type Size struct {
	Width  int
	Height int
}

// Server is a fake Dog CEO API backed by httptest
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	breeds   map[string][]string
	images   map[string][]Size
	failing  map[string]bool
	broken   map[string]bool
	hits     map[string]int
	gate     chan struct{}
	listFail bool
}

// NewServer starts a fake API serving the given taxonomy and per-breed image sizes.
// The server is closed when the test ends.
func NewServer(t testing.TB, breeds map[string][]string, images map[string][]Size) *Server {
	t.Helper()
	s := &Server{
		breeds:  breeds,
		images:  images,
		failing: map[string]bool{},
		broken:  map[string]bool{},
		hits:    map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the base URL to hand to dogapi.NewClient
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// FailBreed makes the image list endpoint of breed answer 404
func (s *Server) FailBreed(breed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[breed] = true
}

// BreakImage makes the image with the given URL serve bytes that do not decode
func (s *Server) BreakImage(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken[strings.TrimPrefix(url, s.URL)] = true
}

// FailList makes the taxonomy endpoint answer 500
func (s *Server) FailList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFail = true
}

// Hold blocks image list requests until Release is called
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks requests held by Hold
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Hits returns how many times path was requested
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// ListHits returns the image list endpoints that were requested, with their counts
func (s *Server) ListHits() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for path, n := range s.hits {
		if strings.HasPrefix(path, "/api/breed/") {
			out[path] = n
		}
	}
	return out
}

// ImageURL returns the URL the fake serves for image i of breed
func (s *Server) ImageURL(breed string, i int) string {
	size := s.images[breed][i]
	return fmt.Sprintf("%s/img/%s/%d_%dx%d.png", s.URL, strings.ReplaceAll(breed, "/", "-"), i, size.Width, size.Height)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	gate := s.gate
	s.mu.Unlock()

	switch {
	case r.URL.Path == "/api/breeds/list/all":
		s.mu.Lock()
		fail := s.listFail
		s.mu.Unlock()
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeJSON(w, s.breeds)
	case strings.HasPrefix(r.URL.Path, "/api/breed/") && strings.HasSuffix(r.URL.Path, "/images"):
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		breed := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/breed/"), "/images")
		s.mu.Lock()
		fail := s.failing[breed]
		s.mu.Unlock()
		sizes, ok := s.images[breed]
		if fail || !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Breed not found"})
			return
		}
		urls := make([]string, len(sizes))
		for i := range sizes {
			urls[i] = s.ImageURL(breed, i)
		}
		writeJSON(w, urls)
	case strings.HasPrefix(r.URL.Path, "/img/"):
		s.mu.Lock()
		broken := s.broken[r.URL.Path]
		s.mu.Unlock()
		if broken {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("not an image"))
			return
		}
		var idx, width, height int
		name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if _, err := fmt.Sscanf(name, "%d_%dx%d.png", &idx, &width, &height); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(PNG(width, height))
	default:
		http.NotFound(w, r)
	}
}

// PNG encodes a solid image of the given size
func PNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func writeJSON(w http.ResponseWriter, message any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		"status":  "success",
	})
}
