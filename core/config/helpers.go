package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// All reads go through viper so settings resolve from whatever sources
// are bound into it (AutomaticEnv, .env files loaded into the process
// environment, explicit Set calls in tests).

func getEnv(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := viper.GetString(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := viper.GetString(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
