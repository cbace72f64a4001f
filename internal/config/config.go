package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "EXPLORER"

// Common holds settings shared by the pipeline commands.
type Common struct {
	In           string
	Out          string
	Errors       string
	PGDSN        string
	Checkpoint   string
	StateName    string
	Resume       bool
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	MetricsAddr  string
	LogLevel     string
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("batch-size", 500)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("resume", true)
	v.SetDefault("log-level", "info")
}

func loadCommon(v *viper.Viper) Common {
	return Common{
		In:           v.GetString("in"),
		Out:          v.GetString("out"),
		Errors:       v.GetString("errors"),
		PGDSN:        v.GetString("pg-dsn"),
		Checkpoint:   v.GetString("checkpoint"),
		StateName:    v.GetString("state-name"),
		Resume:       v.GetBool("resume"),
		BatchSize:    v.GetInt("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		MetricsAddr:  v.GetString("metrics"),
		LogLevel:     v.GetString("log-level"),
	}
}

// Validate checks the settings every pipeline command needs.
func (c Common) Validate() error {
	if c.In == "" {
		return fmt.Errorf("input path is required")
	}
	if c.Out == "" && c.PGDSN == "" {
		return fmt.Errorf("an output path or a pg dsn is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	return nil
}

// newViper merges .env, config file, environment variables, and flags.
// Flags win over env, env over the config file.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	if err := loadDotEnv(cfgFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setCommonDefaults(v)
	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

// loadDotEnv loads a .env file next to the config file (or in the working
// directory) without overriding variables already set.
func loadDotEnv(cfgFile string) error {
	dir := "."
	if cfgFile != "" {
		dir = filepath.Dir(cfgFile)
	}
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
