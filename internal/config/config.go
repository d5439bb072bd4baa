// Package config loads process configuration: viper over a YAML file
// selected by an environment variable, with defaults for everything,
// overlaid by explicit environment variables for the fields §6 calls out as
// externally configured.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BindAddress string `mapstructure:"bind_address"`
	InstanceID  string `mapstructure:"instance_id"`
	Version     string `mapstructure:"version"`
	Secret      string `mapstructure:"secret"`

	ASRURL          string        `mapstructure:"asr_url"`
	ASRSampleRateHz int           `mapstructure:"asr_sample_rate_hz"`
	DecoderBinPath  string        `mapstructure:"decoder_bin_path"`
	SummarizerURL   string        `mapstructure:"summarizer_url"`
	SummarizerToken string        `mapstructure:"summarizer_token"`
	DrainMaxDelay   time.Duration `mapstructure:"drain_max_delay"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, then overlays the §6
// environment variables viper's AutomaticEnv binds by name.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigFile(fmt.Sprintf("config/config.%s.yaml", env))
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("bind_address", ":8080")
	v.SetDefault("instance_id", "sfu-control-plane-1")
	v.SetDefault("version", "dev")
	v.SetDefault("asr_sample_rate_hz", 16000)
	v.SetDefault("decoder_bin_path", "rtp2pcm")
	v.SetDefault("drain_max_delay", "30s")

	v.SetEnvPrefix("SFU")
	v.AutomaticEnv()
	_ = v.BindEnv("secret", "SFU_SECRET")
	_ = v.BindEnv("bind_address", "SFU_BIND_ADDRESS")
	_ = v.BindEnv("instance_id", "SFU_INSTANCE_ID")
	_ = v.BindEnv("version", "SFU_VERSION")
	_ = v.BindEnv("asr_url", "SFU_ASR_URL")
	_ = v.BindEnv("asr_sample_rate_hz", "SFU_ASR_SAMPLE_RATE_HZ")
	_ = v.BindEnv("decoder_bin_path", "SFU_DECODER_BIN_PATH")
	_ = v.BindEnv("summarizer_url", "SFU_SUMMARIZER_URL")
	_ = v.BindEnv("summarizer_token", "SFU_SUMMARIZER_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// TranscriptionEnabled reports whether the ASR URL is configured; §6: "Missing
// ASR URL disables transcription."
func (c *Config) TranscriptionEnabled() bool {
	return c.ASRURL != ""
}

// RemoteSummarizationEnabled reports whether both a summarizer token and a
// summarizer URL are configured; §6: "missing summarizer token forces local summarization."
func (c *Config) RemoteSummarizationEnabled() bool {
	return c.SummarizerToken != "" && c.SummarizerURL != ""
}
