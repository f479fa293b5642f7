// internal/workers/screening/acknowledge-resubmission/config.go
package acknowledgeresubmission

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
