package feeds

import (
	"strings"
	"time"

	"breachwatch/internal/platform/logger"
)

// aggregator feeds publish discovery times in several loose formats
var timestampLayouts = []string{
	"20060102 150405.999999",
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp tries each known layout in order. Unparseable input
// falls back to the current time with a warning rather than dropping
// the claim
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		logger.Named("feeds").Warn().Msg("empty timestamp, using current time")
		return time.Now().UTC()
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	logger.Named("feeds").Warn().Str("timestamp", s).Msg("unparseable timestamp, using current time")
	return time.Now().UTC()
}
