package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breed-gallery/pkg/config"
	"breed-gallery/pkg/logging"
)

// Configuration flags
var (
	portNumber string
	apiURL     string
	configFile string
	verbose    bool
)

var logger *zap.Logger

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "breed-gallery",
		Short: "Breed Gallery browses dog breed photos",
		Long: `Breed Gallery is a command line application and web server for browsing
photos of dog breeds from the Dog CEO API. Pick breeds from a breed tree and
the matching photos are laid out in a responsive grid with a full-screen viewer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = logging.New(verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Set the DOG_API_URL (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands to root
	rootCmd.AddCommand(newListBreedsCmd())
	rootCmd.AddCommand(newShowGalleryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	if apiURL != "" {
		os.Setenv("DOG_API_URL", apiURL)
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load(configFile)
}
