// Package config assembles the runtime configuration from defaults, an
// optional YAML file, and environment variables (highest precedence).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Extractor ExtractorConfig `yaml:"extractor"`
	Matching  MatchingConfig  `yaml:"matching"`
	Video     VideoConfig     `yaml:"video"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Database  DatabaseConfig  `yaml:"database"`
}

type ExtractorConfig struct {
	URL      string `yaml:"url"`      // embedding service base URL, defaults to http://localhost:8000
	Model    string `yaml:"model"`    // embedding model name, must match the gallery's recorded model
	Detector string `yaml:"detector"` // detector backend forwarded to the extractor (opencv, retinaface, ...)
}

type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"` // max cosine distance for a positive match, default 0.4
}

type VideoConfig struct {
	Source       string `yaml:"source"`        // camera index or stream URL
	ProcessEvery int    `yaml:"process_every"` // run extraction+matching every n-th frame, default 10
}

type GalleryConfig struct {
	Path  string `yaml:"path"`  // file artifact path for the file store
	Store string `yaml:"store"` // "file" or "postgres"
	Name  string `yaml:"name"`  // gallery name within the postgres store
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // PostgreSQL connection URL for the postgres gallery store
}

// Load builds the configuration. configFile may be empty; a missing default
// file is fine, an explicitly named but unreadable one is an error.
func Load(configFile string) (*Config, error) {
	cfg := &Config{
		Extractor: ExtractorConfig{
			URL:      "http://localhost:8000",
			Model:    "Facenet512",
			Detector: "opencv",
		},
		Matching: MatchingConfig{Threshold: 0.4},
		Video:    VideoConfig{ProcessEvery: 10},
		Gallery: GalleryConfig{
			Path:  "gallery.json",
			Store: "file",
			Name:  "default",
		},
	}

	explicit := configFile != ""
	if configFile == "" {
		configFile = "face-watch.yaml"
	}
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg.Extractor.URL = envStr("FACE_EXTRACTOR_URL", cfg.Extractor.URL)
	cfg.Extractor.Model = envStr("FACE_MODEL", cfg.Extractor.Model)
	cfg.Extractor.Detector = envStr("FACE_DETECTOR", cfg.Extractor.Detector)
	cfg.Matching.Threshold = envFloat("FACE_THRESHOLD", cfg.Matching.Threshold)
	cfg.Video.Source = envStr("FACE_VIDEO_SOURCE", cfg.Video.Source)
	cfg.Video.ProcessEvery = envInt("FACE_PROCESS_EVERY", cfg.Video.ProcessEvery)
	cfg.Gallery.Path = envStr("FACE_GALLERY_PATH", cfg.Gallery.Path)
	cfg.Gallery.Store = envStr("FACE_GALLERY_STORE", cfg.Gallery.Store)
	cfg.Gallery.Name = envStr("FACE_GALLERY_NAME", cfg.Gallery.Name)
	cfg.Database.URL = envStr("DATABASE_URL", cfg.Database.URL)

	return cfg, nil
}

// envStr reads an environment variable, falling back to the default when
// unset or empty.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}
