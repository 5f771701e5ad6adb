package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timing values.
// These values can be customized via environment variables.
type Timeouts struct {
	LBActive            time.Duration // Wall-clock limit for load balancer activation
	LBPollInterval      time.Duration // Interval between activation state checks
	PolicyRecreateDelay time.Duration // Pause between scaling policy delete and recreate
	RetryMaxAttempts    int           // Maximum number of retry attempts for backoff helpers
	RetryInitialDelay   time.Duration // Initial delay between retries
}

// LoadTimeouts loads timing configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - STRESSFLEET_TIMEOUT_LB_ACTIVE (default: 5m)
//   - STRESSFLEET_LB_POLL_INTERVAL (default: 10s)
//   - STRESSFLEET_POLICY_RECREATE_DELAY (default: 2s)
//   - STRESSFLEET_RETRY_MAX_ATTEMPTS (default: 5)
//   - STRESSFLEET_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		LBActive:            parseDuration("STRESSFLEET_TIMEOUT_LB_ACTIVE", 5*time.Minute),
		LBPollInterval:      parseDuration("STRESSFLEET_LB_POLL_INTERVAL", 10*time.Second),
		PolicyRecreateDelay: parseDuration("STRESSFLEET_POLICY_RECREATE_DELAY", 2*time.Second),
		RetryMaxAttempts:    parseInt("STRESSFLEET_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay:   parseDuration("STRESSFLEET_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
