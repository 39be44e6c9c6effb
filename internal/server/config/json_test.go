package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONTACTBOOK_CONFIG", "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc":              "www.example:9000",
		"metrics_addr":                    ":9200",
		"database_dsn":                    "memory",
		"secret_key":                      "my_secret_key",
		"signing_algorithm":               "HS384",
		"access_token_validity_duration":  "1m",
		"refresh_token_validity_duration": "3m",
		"email_token_validity_duration":   "2h",
		"bcrypt_cost":                     5,
		"mail_host":                       "smtp.example.com",
		"mail_port":                       2525,
		"mail_from":                       "bot@example.com",
		"s3_bucket":                       "bucket",
		"s3_public_url":                   "http://cdn",
		"avatar_max_bytes":                4096,
		"birthday_window_days":            10,
		"log_level":                       "warn",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, ":9200", cfg.MetricsAddr)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "HS384", cfg.SigningAlgorithm)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 2*time.Hour, cfg.EmailTokenValidityDuration)
		assert.Equal(t, 5, cfg.BcryptCost)
		assert.Equal(t, "smtp.example.com", cfg.MailHost)
		assert.Equal(t, 2525, cfg.MailPort)
		assert.Equal(t, "bot@example.com", cfg.MailFrom)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "http://cdn", cfg.S3PublicURL)
		assert.Equal(t, int64(4096), cfg.AvatarMaxBytes)
		assert.Equal(t, 10, cfg.BirthdayWindowDays)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("partial file keeps untouched fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "only-this"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "only-this", cfg.SecretKey)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	})

	t.Run("env variable names the file", func(t *testing.T) {
		t.Setenv("CONTACTBOOK_CONFIG", pathFlag)
		os.Args = []string{"testbin"}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "my_secret_key", cfg.SecretKey)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrGRPC:            "defaults:1234",
			DatabaseDSN:                 "contacts.db",
			SecretKey:                   "key",
			AccessTokenValidityDuration: 2 * time.Minute,
			S3Bucket:                    "s3bucket",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, "contacts.db", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "absent.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
