package constants

import (
	"fmt"
	"time"
)

// Redis Key Conventions
// This file centralizes the Redis key patterns and TTL values shared across
// the application.
// Pattern: musetix:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	// TTL_DIALOGUE_SESSION bounds an abandoned booking conversation. Long
	// enough to survive a payment-widget round trip, short enough that stale
	// drafts do not pile up.
	TTL_DIALOGUE_SESSION = 2 * time.Hour

	// TTL_RATE_LIMIT_WINDOW is the sliding window for request throttling
	TTL_RATE_LIMIT_WINDOW = 60 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "musetix"

	CACHE_KEY_DIALOGUE_SESSION = CACHE_PREFIX + ":dialogue:session:" // + session-id
	CACHE_KEY_RATE_LIMIT       = CACHE_PREFIX + ":ratelimit:" // + client:type
)

// ================== KEY BUILDERS ==================

// BuildDialogueSessionKey returns the key hosting one visitor conversation.
// Example: BuildDialogueSessionKey(id) -> "musetix:dialogue:session:<uuid>"
func BuildDialogueSessionKey(sessionID string) string {
	return CACHE_KEY_DIALOGUE_SESSION + sessionID
}

// BuildRateLimitKey returns the sliding-window counter key for one client and
// endpoint class.
// Example: BuildRateLimitKey("10.0.0.1", "payment") -> "musetix:ratelimit:10.0.0.1:payment"
func BuildRateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s%s:%s", CACHE_KEY_RATE_LIMIT, clientIP, limitType)
}
