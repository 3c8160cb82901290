package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, ParseDuration("24h", time.Minute))
	assert.Equal(t, 7*24*time.Hour, ParseDuration("7d", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestParseDurationStrict(t *testing.T) {
	d, err := ParseDurationStrict("168h")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	_, err = ParseDurationStrict("xd")
	assert.Error(t, err)
	_, err = ParseDurationStrict("")
	assert.Error(t, err)
}
