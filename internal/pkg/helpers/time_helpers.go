package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/edulearn/backend/internal/pkg/logger"
)

// ParseDurationStrict parses a config duration such as "24h" or "7d".
// A trailing "d" is read as whole days.
func ParseDurationStrict(durationStr string) (time.Duration, error) {
	s := strings.TrimSpace(durationStr)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, ok := ParseInt64(days)
		if !ok {
			return 0, fmt.Errorf("invalid day count in duration %q", durationStr)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// ParseDuration is ParseDurationStrict returning def on empty or invalid input.
func ParseDuration(durationStr string, def time.Duration) time.Duration {
	if strings.TrimSpace(durationStr) == "" {
		return def
	}
	d, err := ParseDurationStrict(durationStr)
	if err != nil {
		logger.Warn().Err(err).Str("duration", durationStr).Dur("default", def).Msg("Failed to parse duration string, using default")
		return def
	}
	return d
}
