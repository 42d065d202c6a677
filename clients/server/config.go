// config.go — Server configuration from .env / environment variables.
package server

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime settings.
type Config struct {
	Port          string
	AssetDir      string // root for catalog template assets
	MaxDesignMB   int
	MaxTemplateMB int
}

// LoadConfig reads .env (when present) and the environment, falling
// back to defaults. A missing .env is not an error; production deploys
// set variables directly.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment variables")
	}

	cfg := Config{
		Port:          envOr("MOCKUP_PORT", "8080"),
		AssetDir:      envOr("MOCKUP_ASSET_DIR", "assets"),
		MaxDesignMB:   envIntOr("MOCKUP_MAX_DESIGN_MB", 5),
		MaxTemplateMB: envIntOr("MOCKUP_MAX_TEMPLATE_MB", 10),
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
