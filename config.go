package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "pocket2omnivore"
	envPrefix  = "POCKET2OMNIVORE"
)

// Embedded default settings, also written by the init command
//
//go:embed config/settings.yaml
var defaultSettings string

// Settings represents the YAML configuration structure
type Settings struct {
	API     APISettings     `mapstructure:"api"`
	Import  ImportSettings  `mapstructure:"import"`
	HTTP    HTTPSettings    `mapstructure:"http"`
	Logging LoggingSettings `mapstructure:"logging"`
	Output  OutputSettings  `mapstructure:"output"`
}

// APISettings configures the Omnivore client
type APISettings struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Key     string        `mapstructure:"key" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0s"`
}

// ImportSettings configures the row pipeline
type ImportSettings struct {
	Delay          time.Duration `mapstructure:"delay" validate:"gte=0s"`
	URLTimeout     time.Duration `mapstructure:"url_timeout" validate:"gt=0s"`
	UnreadUntagged bool          `mapstructure:"unread_untagged"`
	CheckURLs      bool          `mapstructure:"check_urls"`
}

// HTTPSettings configures outbound requests
type HTTPSettings struct {
	UserAgent string `mapstructure:"user_agent"`
}

// LoggingSettings configures slog
type LoggingSettings struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// OutputSettings configures terminal output
type OutputSettings struct {
	Colors bool `mapstructure:"colors"`
}

// flagKeys maps command-line flags onto configuration keys
var flagKeys = map[string]string{
	"api-key":         "api.key",
	"api-url":         "api.url",
	"delay":           "import.delay",
	"url-timeout":     "import.url_timeout",
	"unread-untagged": "import.unread_untagged",
	"log-level":       "logging.level",
}

// loadDotEnv loads a .env file from the working directory if present
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
}

// loadSettings merges embedded defaults, the settings file, environment and flags
func loadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(defaultSettings)); err != nil {
		return nil, fmt.Errorf("reading embedded settings: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pocket2omnivore")
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api.key", envPrefix+"_API_KEY", "OMNIVORE_API_KEY")
	_ = v.BindEnv("api.url", envPrefix+"_API_URL", "OMNIVORE_API_URL")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	return &settings, nil
}

// validateSettings checks the settings. The API key is not needed for dry runs.
func validateSettings(s *Settings, dryRun bool) error {
	validate := validator.New()

	var err error
	if dryRun {
		err = validate.StructExcept(s, "API.Key")
	} else {
		err = validate.Struct(s)
	}
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch {
	case fe.StructNamespace() == "Settings.API.Key":
		return "API key required: set OMNIVORE_API_KEY or use --api-key"
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required", field)
	case fe.Tag() == "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// newLogger builds the diagnostics logger on stderr
func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// writeDefaultSettings writes the embedded settings to path
func writeDefaultSettings(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(defaultSettings), 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
