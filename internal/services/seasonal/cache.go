package seasonal

import (
	"fmt"
	"strings"

	"FinSeason/internal/domain/models"
	"FinSeason/pkg/cache"
)

// SchemaVersion is bumped whenever the analysis gains fields or period types, which
// invalidates every cached analysis written under an older key.
const SchemaVersion = 3

const keyPrefix = "seasonal"

// CacheKey is the memoization key of one analysis.
func CacheKey(symbol string, years int, tf models.Timeframe) string {
	return cache.GenerateKeyWithParams(keyPrefix, schemaTag(SchemaVersion), strings.ToUpper(strings.TrimSpace(symbol)), years, tf)
}

// StaleKeyPatterns matches analyses cached under every older schema version.
func StaleKeyPatterns() []string {
	out := make([]string, 0, SchemaVersion-1)
	for v := 1; v < SchemaVersion; v++ {
		out = append(out, cache.BuildPattern(cache.GenerateKeyWithParams(keyPrefix, schemaTag(v))+":"))
	}
	return out
}

func schemaTag(v int) string { return fmt.Sprintf("v%d", v) }
