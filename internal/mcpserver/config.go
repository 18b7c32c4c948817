package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled    bool
	CacheMaxSize    int
	CacheFileTTL    time.Duration
	CacheURLTTL     time.Duration
	CacheContentTTL time.Duration

	// Input limits.
	MaxInlineSize   int64
	MaxLimit        int
	ListLimit       int
	AllowPrivateIPs bool

	// Generation defaults.
	OutputDir      string
	MaxOperations  int
	ValidateOutput bool
	Concurrency    int

	// Remote output, used for s3:// output locations.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASMCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:    envBool("OASMCP_CACHE_ENABLED", true),
		CacheMaxSize:    envInt("OASMCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:    envDuration("OASMCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:     envDuration("OASMCP_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL: envDuration("OASMCP_CACHE_CONTENT_TTL", 15*time.Minute),
		MaxInlineSize:   int64(envInt("OASMCP_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxLimit:        envInt("OASMCP_MAX_LIMIT", 1000),
		ListLimit:       envInt("OASMCP_LIST_LIMIT", 100),
		AllowPrivateIPs: envBool("OASMCP_ALLOW_PRIVATE_IPS", false),
		OutputDir:       os.Getenv("OASMCP_OUTPUT_DIR"),
		MaxOperations:   envInt("OASMCP_MAX_OPERATIONS", 100),
		ValidateOutput:  envBool("OASMCP_VALIDATE_OUTPUT", false),
		Concurrency:     envInt("OASMCP_CONCURRENCY", 4),
		S3Endpoint:      os.Getenv("OASMCP_S3_ENDPOINT"),
		S3Region:        os.Getenv("OASMCP_S3_REGION"),
		S3AccessKey:     os.Getenv("OASMCP_S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("OASMCP_S3_SECRET_KEY"),
		S3UseSSL:        envBool("OASMCP_S3_USE_SSL", true),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
