package loader

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/viper"
)

// RunnerConfig selects the concrete providers a run wires up (spec.md §6's
// "Configuration file... selects concrete providers (run_log_store,
// catalog, secrets, mode) and their config").
type RunnerConfig struct {
	RunLogStore ProviderConfig `mapstructure:"run_log_store"`
	Catalog     ProviderConfig `mapstructure:"catalog"`
	Secrets     ProviderConfig `mapstructure:"secrets"`
	Mode        ProviderConfig `mapstructure:"mode"`
}

// ProviderConfig names one provider implementation plus its free-form
// config, e.g. {Name: "vault", Config: {"mount": "secret", "field": "value"}}.
type ProviderConfig struct {
	Name   string         `mapstructure:"name"`
	Config map[string]any `mapstructure:"config"`
}

// DefaultRunnerConfig is the built-in baseline every loaded RunnerConfig is
// merged over with dario.cat/mergo, so a config file only needs to name
// the providers it wants to override.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		RunLogStore: ProviderConfig{Name: "file", Config: map[string]any{"data_root": ".dagrunner/runs"}},
		Catalog:     ProviderConfig{Name: "file", Config: map[string]any{"data_root": ".dagrunner/catalog"}},
		Secrets:     ProviderConfig{Name: "env"},
		Mode:        ProviderConfig{Name: "local"},
	}
}

// UserConfig lists extension import paths and default provider names
// (spec.md §6's "User-config file... lists import paths of extension
// modules that register additional providers"). Go has no runtime plugin
// import, so ExtensionImports is informational: a deployment's main.go
// blank-imports the packages it needs and this list documents which ones
// the pipeline document assumes are registered.
type UserConfig struct {
	ExtensionImports []string       `mapstructure:"extension_imports"`
	Defaults         map[string]any `mapstructure:"defaults"`
}

// LoadRunnerConfig reads path (if non-empty) plus DAGRUNNER_-prefixed
// environment overrides via viper, and merges the result over
// DefaultRunnerConfig.
func LoadRunnerConfig(path string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	v := newConfigViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("loader: read runner config %q: %w", path, err)
		}
	}

	var loaded RunnerConfig
	if err := v.Unmarshal(&loaded); err != nil {
		return cfg, fmt.Errorf("loader: decode runner config: %w", err)
	}
	if err := mergo.Merge(&cfg, loaded, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("loader: merge runner config: %w", err)
	}
	return cfg, nil
}

// LoadUserConfig reads path (if non-empty) plus environment overrides.
func LoadUserConfig(path string) (UserConfig, error) {
	var cfg UserConfig

	v := newConfigViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("loader: read user config %q: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("loader: decode user config: %w", err)
	}
	return cfg, nil
}

func newConfigViper(path string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DAGRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}
