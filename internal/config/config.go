// Package config loads evalsheet settings from defaults, an optional config file, a .env
// file and EVALSHEET_ environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet"
	"github.com/ukaji3/evalsheet-go/pkg/evalsheet/layout"
)

// EnvPrefix prefixes every environment variable read.
const EnvPrefix = "EVALSHEET"

// Config is the resolved configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `mapstructure:"addr"`
	// Key is the default join column.
	Key string `mapstructure:"key"`
	// Kind is the default assessment kind.
	Kind evalsheet.Kind `mapstructure:"kind"`
	// Sheet is the sheet name of written workbooks.
	Sheet string `mapstructure:"sheet"`
	// PreviewRows bounds merge previews.
	PreviewRows int `mapstructure:"preview_rows"`
	// MaxUploadMB bounds multipart uploads.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
	// Criteria are the score grid criteria, in column order.
	Criteria []string `mapstructure:"criteria"`

	Roster layout.RosterLayout `mapstructure:"roster"`
	Grid   layout.GridLayout   `mapstructure:"grid"`
	Rating layout.RatingLayout `mapstructure:"rating"`
}

// Options returns the export options implied by the configuration.
func (c *Config) Options() evalsheet.Options {
	return evalsheet.Options{Kind: c.Kind, Sheet: c.Sheet, PreviewRows: c.PreviewRows}
}

// New returns a viper instance with every default set and environment lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("addr", ":8080")
	v.SetDefault("key", "Nome")
	v.SetDefault("kind", string(evalsheet.KindScore))
	v.SetDefault("sheet", evalsheet.DefaultSheet)
	v.SetDefault("preview_rows", evalsheet.DefaultPreviewRows)
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("criteria", []string{})
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads path into the environment when it exists. Variables already set win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file at path, if any, and resolves the configuration from v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Roster = layout.DefaultRoster()
	cfg.Grid = layout.DefaultGrid(cfg.Criteria)
	cfg.Rating = layout.DefaultRating(nil)
	for key, target := range map[string]interface{}{
		"roster": &cfg.Roster,
		"grid":   &cfg.Grid,
		"rating": &cfg.Rating,
	} {
		if !v.IsSet(key) {
			continue
		}
		if err := v.UnmarshalKey(key, target); err != nil {
			return nil, fmt.Errorf("config: %s layout: %w", key, err)
		}
	}

	if cfg.Kind != evalsheet.KindScore && cfg.Kind != evalsheet.KindRating {
		return nil, fmt.Errorf("config: unknown kind %q", cfg.Kind)
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Rating.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
