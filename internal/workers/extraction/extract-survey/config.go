// internal/workers/extraction/extract-survey/config.go
package extractsurvey

import "time"

type Config struct {
	Timeout time.Duration
	// FailOnEmpty throws SURVEY_EXTRACTION_FAILED when no question is found.
	FailOnEmpty bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		FailOnEmpty: true,
	}
}
