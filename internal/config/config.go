package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Remarks     bool   `mapstructure:"remarks"`
	Format      string `mapstructure:"format" validate:"oneof=xml json yaml"`
	Indent      int    `mapstructure:"indent" validate:"min=0,max=8"`
	Marker      string `mapstructure:"marker" validate:"required"`
	RootTag     string `mapstructure:"root_tag" validate:"required,alphanum"`
	RemarksTag  string `mapstructure:"remarks_tag" validate:"required"`
	Copy        bool   `mapstructure:"copy"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	ColorMethod string `mapstructure:"color_method"`
	ColorLabel  string `mapstructure:"color_label"`
	ColorError  string `mapstructure:"color_error"`
}

// C is the global config instance
var C Config

var validate = validator.New()

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("remarks", false)
	v.SetDefault("format", "xml")
	v.SetDefault("indent", 2)
	v.SetDefault("marker", "///")
	v.SetDefault("root_tag", "root")
	v.SetDefault("remarks_tag", "remarks")
	v.SetDefault("copy", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("color_method", "36") // Cyan
	v.SetDefault("color_label", "33")  // Yellow
	v.SetDefault("color_error", "31")  // Red
}

// Init initializes configuration with viper
func Init() error {
	SetDefaults(viper.GetViper())

	viper.SetConfigName("xmldoc")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "xmldoc"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("XMLDOC")
	viper.AutomaticEnv()

	// A missing config file is fine; a broken one is not
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(c); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the config field constraints
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Refresh loads the global viper state into C
func Refresh() error {
	c, err := Load(viper.GetViper())
	if err != nil {
		return err
	}
	C = c
	return nil
}

// GetColorMethod returns ANSI color code for method names
func GetColorMethod() string {
	return viper.GetString("color_method")
}

// GetColorLabel returns ANSI color code for section labels
func GetColorLabel() string {
	return viper.GetString("color_label")
}

// GetColorError returns ANSI color code for parse errors
func GetColorError() string {
	return viper.GetString("color_error")
}
