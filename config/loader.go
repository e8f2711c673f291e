/* loader.go
 * Loads the configuration by layering defaults, an optional YAML file and environment variables
 * Authors: Zachary Bower
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RACECONTROL_MONGO_URI
	EnvPrefix = "RACECONTROL_"
	// FileEnv names the variable holding the YAML file path when no path is passed in
	FileEnv = EnvPrefix + "CONFIG"
)

// Load builds a Config. Precedence from low to high: defaults, YAML file, environment
// Preconditions: Receives the YAML path from the command line, may be empty to fall back to RACECONTROL_CONFIG
// Postconditions: Returns a validated Config, or an error if a layer could not be read or validation failed
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// RACECONTROL_CHAT_BURST -> chat_burst. Keys stay flat so underscores match the koanf tags
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
