package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearOASMCPEnv clears all OASMCP_* env vars to isolate tests from the ambient environment.
func clearOASMCPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASMCP_CACHE_ENABLED", "OASMCP_CACHE_MAX_SIZE",
		"OASMCP_CACHE_FILE_TTL", "OASMCP_CACHE_URL_TTL", "OASMCP_CACHE_CONTENT_TTL",
		"OASMCP_MAX_INLINE_SIZE", "OASMCP_MAX_LIMIT", "OASMCP_LIST_LIMIT",
		"OASMCP_ALLOW_PRIVATE_IPS", "OASMCP_OUTPUT_DIR", "OASMCP_MAX_OPERATIONS",
		"OASMCP_VALIDATE_OUTPUT", "OASMCP_CONCURRENCY",
		"OASMCP_S3_ENDPOINT", "OASMCP_S3_REGION", "OASMCP_S3_ACCESS_KEY",
		"OASMCP_S3_SECRET_KEY", "OASMCP_S3_USE_SSL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearOASMCPEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, 100, c.ListLimit)
	assert.False(t, c.AllowPrivateIPs)
	assert.Empty(t, c.OutputDir)
	assert.Equal(t, 100, c.MaxOperations)
	assert.False(t, c.ValidateOutput)
	assert.Equal(t, 4, c.Concurrency)
	assert.True(t, c.S3UseSSL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearOASMCPEnv(t)
	t.Setenv("OASMCP_CACHE_ENABLED", "false")
	t.Setenv("OASMCP_CACHE_MAX_SIZE", "50")
	t.Setenv("OASMCP_CACHE_URL_TTL", "2m")
	t.Setenv("OASMCP_OUTPUT_DIR", "s3://adapters/generated")
	t.Setenv("OASMCP_MAX_OPERATIONS", "40")
	t.Setenv("OASMCP_VALIDATE_OUTPUT", "true")
	t.Setenv("OASMCP_S3_ENDPOINT", "minio:9000")
	t.Setenv("OASMCP_S3_USE_SSL", "false")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
	assert.Equal(t, "s3://adapters/generated", c.OutputDir)
	assert.Equal(t, 40, c.MaxOperations)
	assert.True(t, c.ValidateOutput)
	assert.Equal(t, "minio:9000", c.S3Endpoint)
	assert.False(t, c.S3UseSSL)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearOASMCPEnv(t)
	t.Setenv("OASMCP_CACHE_MAX_SIZE", "banana")
	t.Setenv("OASMCP_CACHE_FILE_TTL", "not-a-duration")
	t.Setenv("OASMCP_CACHE_ENABLED", "maybe")
	t.Setenv("OASMCP_MAX_OPERATIONS", "-5")
	t.Setenv("OASMCP_MAX_LIMIT", "0")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 100, c.MaxOperations)
	assert.Equal(t, 1000, c.MaxLimit)
}
