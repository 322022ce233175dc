package busapi

import "time"

type Config struct {
	BaseURL           string
	AuthHeaderKey     string
	AuthHeaderValue   string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func (config Config) authEnabled() bool {
	return config.AuthHeaderKey != "" && config.AuthHeaderValue != ""
}
