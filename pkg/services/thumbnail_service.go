package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"path"
	"strings"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// Thumbnail returns a JPEG of the photo at index, scaled to fit a square of the configured size
func (s *Service) Thumbnail(ctx context.Context, sess *Session, index int) ([]byte, error) {
	photo, err := sess.Photo(index)
	if err != nil {
		return nil, err
	}

	data, _, err := s.api.FetchImage(ctx, photo.Src)
	if err != nil {
		return nil, fmt.Errorf("error downloading image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	size := uint(s.config.ThumbnailSize)
	thumb := resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	s.logger.Debug("Thumbnail generated",
		zap.String("src", photo.Src),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// Download returns the original bytes of the photo at index with its content type and a file name
func (s *Service) Download(ctx context.Context, sess *Session, index int) ([]byte, string, string, error) {
	photo, err := sess.Photo(index)
	if err != nil {
		return nil, "", "", err
	}

	data, contentType, err := s.api.FetchImage(ctx, photo.Src)
	if err != nil {
		return nil, "", "", fmt.Errorf("error downloading image: %w", err)
	}
	return data, contentType, getSafeFilename(photo.Breed, photo.Src), nil
}

// getSafeFilename derives a download file name from the breed and the image URL
func getSafeFilename(breed, src string) string {
	name := src
	if u, err := url.Parse(src); err == nil {
		name = u.Path
	}
	baseName := path.Base(name)
	if baseName == "." || baseName == "/" {
		baseName = "image.jpg"
	}

	if len(baseName) > 200 {
		hash := sha256.Sum256([]byte(src))
		baseName = fmt.Sprintf("%s%s", hex.EncodeToString(hash[:8]), path.Ext(baseName))
	}

	prefix := strings.ReplaceAll(breed, "/", "-")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, prefix+"-"+baseName)
}
