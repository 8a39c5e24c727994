package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()
	setDefaults()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// defaults and environment only
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("API_USE_RATE_LIMIT", false)
	viper.SetDefault("API_RATE_LIMIT", 100.0)
	viper.SetDefault("API_RATE_BURST", 200)
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second)
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second)
	viper.SetDefault("SIM_TICK_HZ", 50.0)
	viper.SetDefault("TELEMETRY_PERIOD", 10*time.Millisecond)
	viper.SetDefault("SPATIAL_INDEX_RADIUS", 5.0)
}
