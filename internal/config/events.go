package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EventsConfig holds configuration for the events command.
type EventsConfig struct {
	Common
}

// LoadEvents merges .env, config file, environment variables, and flags into EventsConfig.
func LoadEvents(cfgFile string, flags *pflag.FlagSet) (EventsConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "./data/processed_events.jsonl")
		v.SetDefault("checkpoint", "./data/events_checkpoint.json")
		v.SetDefault("state-name", "explorer-events")
	})
	if err != nil {
		return EventsConfig{}, err
	}
	return EventsConfig{Common: loadCommon(v)}, nil
}
