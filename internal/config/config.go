// Package config holds the settings shared by the bearimy tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the name of the optional config file, searched for in the
// config directory.
const FileName = "bearimy.toml"

const envPrefix = "BEARIMY"

// Load sets default values, applies BEARIMY_* environment overrides and reads
// the config file from configDir if there is one. A missing file is not an
// error; an unreadable one is.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("assetRoot", "assets")
	viper.SetDefault("mapPath", "assets/maps/map.toml")
	viper.SetDefault("levelList", "assets/levels/levels.toml")
	viper.SetDefault("pretty", false)
	viper.SetDefault("probeImages", true)

	viper.SetDefault("editor.grabRadius", 12.0)
	viper.SetDefault("editor.panSpeed", 4.0)
	viper.SetDefault("editor.zoomStep", 1.25)

	viper.SetDefault("sample.resolution", 100)
	viper.SetDefault("sample.accuracy", 1e-6)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configDir == "" {
		return nil
	}
	viper.SetConfigName(strings.TrimSuffix(FileName, ".toml"))
	viper.SetConfigType("toml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// BindFlags makes flags override the config values of the same name.
func BindFlags(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// ConfigFile returns the path of the config file that was read, if any.
func ConfigFile() string {
	return viper.ConfigFileUsed()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
