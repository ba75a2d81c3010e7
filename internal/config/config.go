package config

import (
	"fmt"
	"os"
	"strconv"
)

// Record source kinds accepted in RECORDS_SOURCE.
const (
	SourceKintone = "kintone"
	SourceYAML    = "yaml"
	SourceSQLite  = "sqlite"
)

// DefaultBackgroundURL is the space backdrop shown behind the shapes.
const DefaultBackgroundURL = "https://images.unsplash.com/photo-1506318137071-a8e063b4bec0?ixlib=rb-1.2.1&w=1000&q=80"

// Config holds the viewer settings read from the environment (usually via .env).
type Config struct {
	// ViewID is the only view the shape scene mounts on.
	ViewID int
	// StartViewID is the view shown when the window opens.
	StartViewID int

	RecordsSource string
	RecordsFile   string
	RecordsDB     string

	KintoneBaseURL  string
	KintoneAppID    int
	KintoneAPIToken string

	BackgroundURL string
	// BackgroundMaxDim bounds the long side of the decoded backdrop in pixels.
	BackgroundMaxDim int

	RecordServerPort string
}

// Load reads Config from environment variables. VIEW_ID is required; everything else has a default.
func Load() (*Config, error) {
	viewID, err := requireInt("VIEW_ID")
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		ViewID:           viewID,
		StartViewID:      getEnvAsInt("START_VIEW_ID", viewID),
		RecordsSource:    getEnv("RECORDS_SOURCE", SourceKintone),
		RecordsFile:      getEnv("RECORDS_FILE", "assets/records.yaml"),
		RecordsDB:        getEnv("RECORDS_DB", "data/records.db"),
		KintoneBaseURL:   getEnv("KINTONE_BASE_URL", "http://localhost:3080"),
		KintoneAppID:     getEnvAsInt("KINTONE_APP_ID", 1),
		KintoneAPIToken:  os.Getenv("KINTONE_API_TOKEN"),
		BackgroundURL:    getEnv("BACKGROUND_URL", DefaultBackgroundURL),
		BackgroundMaxDim: getEnvAsInt("BACKGROUND_MAX_DIM", 1024),
		RecordServerPort: getEnv("RECORD_SERVER_PORT", "3080"),
	}
	switch cfg.RecordsSource {
	case SourceKintone, SourceYAML, SourceSQLite:
	default:
		return nil, fmt.Errorf("config: unknown RECORDS_SOURCE %q (use kintone, yaml, or sqlite)", cfg.RecordsSource)
	}
	return cfg, nil
}

func requireInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, fmt.Errorf("config: %s is not set", key)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
