package orders

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNumber(t *testing.T) {
	now := time.Date(2025, 3, 7, 15, 4, 5, 0, time.UTC)

	n := NewNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^PR-20250307-[0-9A-F]{6}$`), n)

	// Random suffix keeps same-day numbers distinct.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewNumber(now)] = true
	}
	assert.Greater(t, len(seen), 1)
}
