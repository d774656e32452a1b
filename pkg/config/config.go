package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = "8080"
	DefaultAPIBaseURL    = "https://dog.ceo/api"
	DefaultSessionTTL    = 30 * time.Minute
	DefaultHTTPTimeout   = 20 * time.Second
	DefaultImageWorkers  = 8
	DefaultThumbnailSize = 120
)

// Config holds all configuration for the application
type Config struct {
	Port          string        `yaml:"port"`
	APIBaseURL    string        `yaml:"api_url"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	ImageWorkers  int           `yaml:"image_workers"`
	ThumbnailSize int           `yaml:"thumbnail_size"`
	BucketName    string        `yaml:"bucket"`
}

// ErrInvalidPort is returned when PORT is not a valid TCP port
var ErrInvalidPort = errors.New("PORT must be a number between 1 and 65535")

// ErrInvalidWorkers is returned when IMAGE_WORKERS is not positive
var ErrInvalidWorkers = errors.New("IMAGE_WORKERS must be greater than zero")

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:          DefaultPort,
		APIBaseURL:    DefaultAPIBaseURL,
		SessionTTL:    DefaultSessionTTL,
		HTTPTimeout:   DefaultHTTPTimeout,
		ImageWorkers:  DefaultImageWorkers,
		ThumbnailSize: DefaultThumbnailSize,
	}
}

// Load loads configuration from an optional YAML file, a .env file and environment variables.
// Environment variables win over the file, the file wins over defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if apiURL := os.Getenv("DOG_API_URL"); apiURL != "" {
		c.APIBaseURL = apiURL
	}
	if bucket := os.Getenv("BUCKET_NAME"); bucket != "" {
		c.BucketName = bucket
	}

	var err error
	if c.SessionTTL, err = durationEnv("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	if c.ImageWorkers, err = intEnv("IMAGE_WORKERS", c.ImageWorkers); err != nil {
		return err
	}
	if c.ThumbnailSize, err = intEnv("THUMBNAIL_SIZE", c.ThumbnailSize); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return ErrInvalidPort
	}
	if c.ImageWorkers < 1 {
		return ErrInvalidWorkers
	}
	if c.ThumbnailSize < 1 {
		c.ThumbnailSize = DefaultThumbnailSize
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	return nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Gallery URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("State feed: http://localhost:%s/api/state\n", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
