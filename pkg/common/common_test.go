package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "canggu-beach", Slugify("Canggu Beach"))
	assert.Equal(t, "scooter-125cc", Slugify("  Scooter, 125cc!  "))
	assert.Equal(t, "usd", Slugify("USD"))
	assert.Equal(t, "a-b-c", Slugify("a---b___c"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

func TestTimestampSlug(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)
	slug := TimestampSlug(ts)
	assert.Equal(t, "20260314150926535897", slug)
	assert.Len(t, slug, 20)
}

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 10000; i++ {
		id := UUIDint64()
		assert.False(t, seen[id], "duplicate snowflake id")
		seen[id] = true
	}
}

func TestInSlice(t *testing.T) {
	vals := []string{"day", "month", "other"}
	assert.True(t, InSlice("month", vals))
	assert.False(t, InSlice("year", vals))
}
