package resilience

import (
	"time"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenMaxReq   = 2
)

// CircuitBreakerConfig tunes the breaker in front of one upstream API.
// Clients skip the breaker entirely when Enabled is false.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: defaultFailureThreshold,
		OpenTimeout:      defaultOpenTimeout,
		HalfOpenMaxReq:   defaultHalfOpenMaxReq,
	}
}

// Normalize replaces out-of-range thresholds with defaults. Enabled is kept
// as given.
func (cfg CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return cfg
}

func (cfg CircuitBreakerConfig) LogFields() []any {
	return []any{
		"breaker_enabled", cfg.Enabled,
		"failure_threshold", cfg.FailureThreshold,
		"open_timeout", cfg.OpenTimeout.String(),
		"half_open_max_req", cfg.HalfOpenMaxReq,
	}
}

// LogStateChanges reports every transition at warn level, since an opening
// breaker means users are about to see "try again later" replies.
func LogStateChanges(logger *logging.Logger) StateChangeFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(name string, from, to CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	}
}
