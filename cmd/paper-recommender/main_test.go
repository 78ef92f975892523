package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-recommender/pkg/types"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := configFrom(v)

	want := types.DefaultConfig()
	want.Fetch.UserAgent = "paper-recommender/" + version
	assert.Equal(t, want, cfg)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper-recommender.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fetch:
  timeout: 5s
  rate_limit: 0
session:
  query: cat:cs.AI
  batch_size: 10
log:
  format: json
`), 0o644))

	t.Setenv("PAPER_RECOMMENDER_SESSION_BATCH_SIZE", "7")

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("PAPER_RECOMMENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg := configFrom(v)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 0.0, cfg.Fetch.RateLimit)
	assert.Equal(t, "cat:cs.AI", cfg.Session.Query)
	assert.Equal(t, 7, cfg.Session.BatchSize)
	assert.Equal(t, types.DefaultRecommendationsPerCategory, cfg.Session.RecommendationsPerCategory)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, types.DefaultBaseURL, cfg.Fetch.BaseURL)
}

func TestWritePapersRejectsUnknownFormat(t *testing.T) {
	err := writePapers(nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"fetch", "session", "serve", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
