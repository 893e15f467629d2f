package env

import (
	"os"
	"strings"
)

// LoadOptions reads Options from the environment. Unset or malformed values
// fall back to the zero value; call Normalize for defaults.
func LoadOptions() Options {
	return Options{
		Enabled:      boolEnv("SPYGLASS_ENABLED", false),
		ArtifactsDir: trimmedEnv("ARTIFACTS_DIR"),
		RunID:        trimmedEnv("CI_RUN_ID"),
		MetricsAddr:  trimmedEnv("SPYGLASS_METRICS_ADDR"),
		Development:  boolEnv("SPYGLASS_DEV", false),
	}
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// boolEnv accepts 1/true/t/yes/y/on and their negations, case-insensitively.
// Anything else, including unset, yields def.
func boolEnv(key string, def bool) bool {
	switch strings.ToLower(trimmedEnv(key)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}
