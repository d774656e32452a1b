package services

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"breed-gallery/pkg/models"
)

// MarshalManifest encodes a manifest as indented JSON
func MarshalManifest(manifest models.Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling manifest: %w", err)
	}
	return data, nil
}

// UploadManifest writes the manifest JSON to object in a Cloud Storage bucket
func (s *Service) UploadManifest(ctx context.Context, bucketName, object string, manifest models.Manifest, opts ...option.ClientOption) error {
	data, err := MarshalManifest(manifest)
	if err != nil {
		return err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	writer := client.Bucket(bucketName).Object(object).NewWriter(ctx)
	writer.ContentType = "application/json"
	// single request upload
	writer.ChunkSize = 0
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("error uploading manifest: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("error finalizing manifest upload: %w", err)
	}

	s.logger.Info("Manifest uploaded",
		zap.String("bucket", bucketName),
		zap.String("object", object),
		zap.Int("photos", len(manifest.Photos)))
	return nil
}
