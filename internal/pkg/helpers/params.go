package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// MaxListLimit caps any ?limit= query value
	MaxListLimit = 100
)

// ParseLimitParam reads an optional positive ?limit= value. Zero means "no limit".
func ParseLimitParam(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ParseInt64 parses a path or query identifier.
func ParseInt64(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
