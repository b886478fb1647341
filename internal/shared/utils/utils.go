package utils

import "os"

// GetEnvVariable returns the environment value for key or defaultValue when unset.
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
