package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	Common
	// ContractMap overrides or extends the built-in contract routes,
	// name -> "domain[@version]".
	ContractMap     map[string]string
	VersionFallback bool
	IncludeRaw      bool
}

// LoadDecode merges .env, config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out", "./data/decoded_blobs.jsonl")
		v.SetDefault("checkpoint", "./data/decode_checkpoint.json")
		v.SetDefault("state-name", "explorer-decode")
		v.SetDefault("version-fallback", false)
		v.SetDefault("include-raw", false)
	})
	if err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		Common:          loadCommon(v),
		ContractMap:     getStringMap(v, "contract-map"),
		VersionFallback: v.GetBool("version-fallback"),
		IncludeRaw:      v.GetBool("include-raw"),
	}
	return cfg, nil
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
		return out
	case string:
		return parseStringMap(typed)
	case []string, []interface{}:
		return parseStringMap(strings.Join(getStringSlice(v, key), ","))
	default:
		return map[string]string{}
	}
}

func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
