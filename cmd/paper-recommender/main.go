// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-recommender CLI.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-recommender/internal/logging"
	"github.com/pdiddy/paper-recommender/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE once flags and config are read.
var logger = zerolog.Nop()

// rootCmd is the base command for the paper-recommender CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-recommender",
	Short: "Learn category preferences from arXiv papers and recommend more",
	Long: `paper-recommender fetches recent arXiv papers in small batches, records
like/dislike/neutral feedback on each one, learns which categories you
prefer, and fetches a few papers from each preferred category.

Run "session" for an interactive loop, "fetch" for a single batch, or
"serve" to expose sessions over a JSON HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger = logging.NewLogger(cfg.Log, os.Stderr)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-recommender.yaml or ~/.config/paper-recommender/paper-recommender.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().String("base-url", "", "arXiv API endpoint")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("fetch.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-recommender")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-recommender"))
		}
	}

	viper.SetEnvPrefix("PAPER_RECOMMENDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// setDefaults registers every configuration key so environment variables
// resolve even when no config file exists.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	d.Fetch.UserAgent = "paper-recommender/" + version

	v.SetDefault("fetch.base_url", d.Fetch.BaseURL)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("fetch.rate_limit", d.Fetch.RateLimit)
	v.SetDefault("fetch.burst", d.Fetch.Burst)
	v.SetDefault("session.query", d.Session.Query)
	v.SetDefault("session.batch_size", d.Session.BatchSize)
	v.SetDefault("session.recommendations_per_category", d.Session.RecommendationsPerCategory)
	v.SetDefault("session.max_recommendation_categories", d.Session.MaxRecommendationCategories)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// loadConfig reads the merged configuration from the global viper.
func loadConfig() types.Config {
	return configFrom(viper.GetViper())
}

func configFrom(v *viper.Viper) types.Config {
	return types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("fetch.timeout"),
				UserAgent: v.GetString("fetch.user_agent"),
			},
			BaseURL:   v.GetString("fetch.base_url"),
			RateLimit: v.GetFloat64("fetch.rate_limit"),
			Burst:     v.GetInt("fetch.burst"),
		},
		Session: types.SessionConfig{
			Query:                       v.GetString("session.query"),
			BatchSize:                   v.GetInt("session.batch_size"),
			RecommendationsPerCategory:  v.GetInt("session.recommendations_per_category"),
			MaxRecommendationCategories: v.GetInt("session.max_recommendation_categories"),
		},
		Log: types.LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Server: types.ServerConfig{
			Address:         v.GetString("server.address"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
