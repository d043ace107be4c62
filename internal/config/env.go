package config

import (
	"os"
	"strings"
)

// applyEnv overrides file values with TASKLIST_* variables when set.
func applyEnv(c *Config) {
	if val := getEnv("TASKLIST_DRIVER"); val != "" {
		c.Storage.Driver = val
	}
	if val := getEnv("TASKLIST_DATA"); val != "" {
		c.Storage.DataDir = val
	}
	if val := getEnv("TASKLIST_PATH"); val != "" {
		c.Storage.Path = val
	}
	if val := getEnv("TASKLIST_KEY"); val != "" {
		c.Storage.Key = val
	}
	if val := getEnv("TASKLIST_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := getEnv("TASKLIST_NOTICE_TTL"); val != "" {
		c.UI.NoticeTTL = val
	}
	if val, ok := getEnvBool("TASKLIST_DISCARD_ON_BLUR"); ok {
		c.UI.DiscardOnBlur = val
	}
	if val, ok := getEnvBool("TASKLIST_DEV_STATIC"); ok {
		c.Server.UseDiskStatic = val
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvBool(key string) (bool, bool) {
	switch strings.ToLower(getEnv(key)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}
