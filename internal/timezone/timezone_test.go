package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/Sao_Paulo"))
	assert.True(t, IsValid("UTC"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Marte/Cratera"))
}

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("fuso-inexistente")
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestFormatBR(t *testing.T) {
	// 14:00 UTC = 11:00 em São Paulo (UTC-3).
	ts := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "10/03/2026 11:00", FormatBR(ts))
}
