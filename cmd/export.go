package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"breed-gallery/pkg/services"
)

// newExportCmd creates a new command for exporting a gallery manifest
func newExportCmd() *cobra.Command {
	var bucket, object string

	cmd := &cobra.Command{
		Use:   "export [breed...]",
		Short: "Export a gallery manifest",
		Long: `Resolve photos for the given breeds and export them as a JSON manifest.
The manifest is written to stdout, or uploaded to a Cloud Storage bucket when
--bucket (or BUCKET_NAME) is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.InitService(cfg, logger)
			defer svc.Close()

			manifest, err := svc.Manifest(cmd.Context(), args)
			if err != nil {
				return err
			}

			if bucket == "" {
				bucket = cfg.BucketName
			}
			if bucket != "" {
				return svc.UploadManifest(cmd.Context(), bucket, object, manifest)
			}

			data, err := services.MarshalManifest(manifest)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Upload the manifest to this Cloud Storage bucket")
	cmd.Flags().StringVar(&object, "object", "manifest.json", "Object name for the uploaded manifest")
	return cmd
}
