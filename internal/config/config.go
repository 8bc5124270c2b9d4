// ABOUTME: Configuration loading for the clock
// ABOUTME: Optional YAML file plus TIKTOK_CLOCK_* env overlay, validated on load
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/tiktok-clock/internal/timesource"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides
const EnvPrefix = "TIKTOK_CLOCK"

type Config struct {
	Provider string        `mapstructure:"provider" validate:"oneof=worldtimeapi unixtime ntp"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// UTCOffset shifts the epoch every provider timestamp is added to.
	UTCOffset time.Duration `mapstructure:"utcOffset" validate:"gte=-14h,lte=14h"`
	FPS       int           `mapstructure:"fps" validate:"min=1,max=240"`
	LogFile   string        `mapstructure:"logFile" validate:"required"`
	NoTUI     bool          `mapstructure:"noTUI"`
	Endpoints Endpoints     `mapstructure:"endpoints"`
}

type Endpoints struct {
	WorldTimeAPI string `mapstructure:"worldTimeAPI" validate:"required,url"`
	UnixTime     string `mapstructure:"unixTime" validate:"required,url"`
	NTPHost      string `mapstructure:"ntpHost" validate:"required,hostname_rfc1123|ip"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "worldtimeapi")
	v.SetDefault("timeout", timesource.DefaultTimeout)
	v.SetDefault("utcOffset", timesource.DefaultUTCOffset)
	v.SetDefault("fps", 30)
	v.SetDefault("logFile", "tiktok-clock.log")
	v.SetDefault("noTUI", false)
	v.SetDefault("endpoints.worldTimeAPI", timesource.DefaultWorldTimeAPIURL)
	v.SetDefault("endpoints.unixTime", timesource.DefaultUnixTimeURL)
	v.SetDefault("endpoints.ntpHost", timesource.DefaultNTPHost)
}

// Load reads defaults, then path (if non-empty), then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error when reading config file at %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error occurred while decoding configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate normalises the provider name, then checks struct tags and reports
// every failing field. Call it again after overriding fields from flags.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("unable to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Errorf("invalid configuration:\n\t%s", strings.Join(msgs, "\n\t"))
}

// SelectedProvider resolves the configured provider name
func (c *Config) SelectedProvider() (timesource.Provider, error) {
	return timesource.ParseProvider(c.Provider)
}

// Fetcher returns the time source configuration
func (c *Config) Fetcher() timesource.Config {
	return timesource.Config{
		Timeout:         c.Timeout,
		UTCOffset:       c.UTCOffset,
		WorldTimeAPIURL: c.Endpoints.WorldTimeAPI,
		UnixTimeURL:     c.Endpoints.UnixTime,
		NTPHost:         c.Endpoints.NTPHost,
	}
}

// FrameInterval is the time between frames at the configured rate
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
