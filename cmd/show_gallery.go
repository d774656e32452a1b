package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"breed-gallery/pkg/models"
	"breed-gallery/pkg/services"
)

// newShowGalleryCmd creates a new command for showing the photos of selected breeds
func newShowGalleryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-gallery [breed...]",
		Short: "Show photos for the given breeds",
		Long: `Fetch and resolve photos for one or more breeds the same way the web gallery does.
Sub-breeds are given as "breed/sub", for example "terrier/yorkshire".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.InitService(cfg, logger)
			defer svc.Close()

			photos, err := svc.ResolvePhotos(cmd.Context(), args)
			if err != nil {
				return err
			}
			showGallery(cmd.OutOrStdout(), args, photos)
			return nil
		},
	}
}

// showGallery prints the resolved photos in gallery order
func showGallery(out io.Writer, breeds []string, photos []models.Photo) {
	fmt.Fprintf(out, "Breeds: %s\n", strings.Join(breeds, ", "))
	fmt.Fprintf(out, "Photos: %d\n", len(photos))
	fmt.Fprintln(out, "================")

	for i, photo := range photos {
		fmt.Fprintf(out, "%d. %s\n", i+1, photo.Label)
		fmt.Fprintf(out, "   URL: %s\n", photo.Src)
		fmt.Fprintf(out, "   Size: %dx%d\n", photo.Width, photo.Height)
		fmt.Fprintln(out)
	}
}
