package common

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func initSnowflake() {
	nodeID := int64(rand.Intn(1023))
	if v := os.Getenv("BALIBOARD_NODE_ID"); v != "" {
		fmt.Sscanf(v, "%d", &nodeID)
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	snowflakeNode = node
}

// UUIDint64 generates an int64 primary key from the snowflake node
func UUIDint64() int64 {
	snowflakeOnce.Do(initSnowflake)
	return snowflakeNode.Generate().Int64()
}

// UUID generates a string form of the snowflake id
func UUID() string {
	snowflakeOnce.Do(initSnowflake)
	return snowflakeNode.Generate().String()
}

// Slugify converts a human label into a url-safe slug: lowercase,
// runs of non-alphanumeric characters collapsed to a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TimestampSlug formats t as a fixed-width digit string down to
// microseconds (yyyymmddHHMMSSuuuuuu). Collisions are possible for
// writes landing on the same microsecond; callers treat the resulting
// unique violation as a retryable conflict.
func TimestampSlug(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// InSlice reports whether v is one of vals
func InSlice(v string, vals []string) bool {
	for _, x := range vals {
		if v == x {
			return true
		}
	}
	return false
}
