// Package dogapi talks to the Dog CEO API: the breed taxonomy, the per-breed
// image lists and the images themselves.
package dogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"breed-gallery/pkg/logging"
)

// maxImageBytes bounds image downloads for the viewer and thumbnails
const maxImageBytes = 32 << 20

// ErrUnexpectedStatus is returned when the API answers with a non-success status
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrImageTooLarge is returned when an image exceeds the download limit
var ErrImageTooLarge = errors.New("image too large")

// ErrInvalidBreed is returned for identifiers that are not "breed" or "breed/sub"
var ErrInvalidBreed = errors.New("invalid breed identifier")

// envelope is the shape of every Dog CEO API response
type envelope[T any] struct {
	Message T      `json:"message"`
	Status  string `json:"status"`
}

// Client is a Dog CEO API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBytes   int64
	logger     *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxImageBytes,
		logger:     logging.OrNop(logger),
	}
}

// ListBreeds returns the breed taxonomy, mapping each breed to its sub-breeds
func (c *Client) ListBreeds(ctx context.Context) (map[string][]string, error) {
	var breeds map[string][]string
	if err := c.getJSON(ctx, c.baseURL+"/breeds/list/all", &breeds); err != nil {
		return nil, fmt.Errorf("failed to list breeds: %w", err)
	}
	if breeds == nil {
		breeds = map[string][]string{}
	}
	return breeds, nil
}

// BreedImages returns the image URLs of a breed or sub-breed ("hound/afghan")
func (c *Client) BreedImages(ctx context.Context, breed string) ([]string, error) {
	path, err := breedPath(breed)
	if err != nil {
		return nil, err
	}
	var urls []string
	if err := c.getJSON(ctx, fmt.Sprintf("%s/breed/%s/images", c.baseURL, path), &urls); err != nil {
		return nil, fmt.Errorf("failed to fetch images for %s: %w", breed, err)
	}
	return urls, nil
}

// ImageSize loads the image header at imageURL and returns its pixel width and height
func (c *Client) ImageSize(ctx context.Context, imageURL string) (int, int, error) {
	resp, err := c.get(ctx, imageURL)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image %s: %w", imageURL, err)
	}
	return cfg.Width, cfg.Height, nil
}

// FetchImage downloads the image at imageURL and returns its bytes and content type
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	resp, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", imageURL, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("%w: %s is over %d bytes", ErrImageTooLarge, imageURL, c.maxBytes)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, message any) error {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Status != "success" {
		return fmt.Errorf("%w: %q", ErrUnexpectedStatus, result.Status)
	}
	if err := json.Unmarshal(result.Message, message); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	c.logger.Debug("GET", zap.String("url", endpoint))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w %d from %s: %s", ErrUnexpectedStatus, resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

// breedPath validates a breed identifier and escapes it for use in a URL path
func breedPath(breed string) (string, error) {
	parts := strings.Split(breed, "/")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidBreed, breed)
	}
	for i, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidBreed, breed)
		}
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/"), nil
}
