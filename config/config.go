// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath     = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validThemes    = []string{"light", "dark"}
	validViewModes = []string{"grid", "list"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ValidTheme reports whether t is an accepted theme preference value.
func ValidTheme(t string) bool {
	return slices.Contains(validThemes, t)
}

// ValidViewMode reports whether m is an accepted view mode preference value.
func ValidViewMode(m string) bool {
	return slices.Contains(validViewModes, m)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("storage.path", "storage_path")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.allowed_types", "upload_allowed_types")

	v.BindEnv("session.secret", "session_secret")

	v.BindEnv("tagging.enabled", "tagging_enabled")
	v.BindEnv("tagging.api_url", "tagging_api_url")
	v.BindEnv("tagging.api_key", "tagging_api_key")
	v.BindEnv("tagging.model", "tagging_model")
	v.BindEnv("tagging.timeout_seconds", "tagging_timeout_seconds")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.path", "gallery.db")

	v.SetDefault("upload.max_size", 25)
	v.SetDefault("upload.allowed_types", []string{"image/", "video/"})

	v.SetDefault("tagging.enabled", false)
	v.SetDefault("tagging.api_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("tagging.model", "gpt-4o-mini")
	v.SetDefault("tagging.timeout_seconds", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("storage.path") == "" {
		return errors.New("storage.path can't be empty")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("session.secret") == "" {
		fmt.Println("WARNING: You haven't set a session secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random session secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetBool("tagging.enabled") {
		if v.GetString("tagging.api_key") == "" {
			zap.L().Warn("tagging.enabled is set but no tagging.api_key provided, uploads will receive fallback tags")
		}

		if v.GetInt("tagging.timeout_seconds") <= 0 {
			return errors.New("tagging.timeout_seconds must be bigger than 0")
		}
	}

	// Config value is in megabytes, everything else works with bytes
	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
