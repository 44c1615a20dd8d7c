package config

import (
	"os"
	"strings"
)

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the idle clicker API without a trailing slash.
// It can be overridden with the IDLE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("IDLE_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// Username returns IDLE_USERNAME, used when --username is not given.
func Username() string {
	return os.Getenv("IDLE_USERNAME")
}

// Password returns IDLE_PASSWORD, used when --password is not given.
func Password() string {
	return os.Getenv("IDLE_PASSWORD")
}
