package services

import (
	"net/url"
	"strconv"
	"strings"
)

// loreKeyPrefix namespaces lore views in a shared cache. Bump the version
// when the cached view encoding changes.
const loreKeyPrefix = "lore:v1:"

// LoreCacheKey derives the cache key for a view of one entity at one reading
// position. Ids are escaped so that the ':' separator cannot be forged by an
// id, which keeps distinct inputs on distinct keys.
func LoreCacheKey(novelID, entityID string, currentChapter int) string {
	var b strings.Builder
	b.Grow(len(loreKeyPrefix) + len(novelID) + len(entityID) + 12)
	b.WriteString(loreKeyPrefix)
	b.WriteString(url.QueryEscape(novelID))
	b.WriteByte(':')
	b.WriteString(url.QueryEscape(entityID))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(currentChapter))
	return b.String()
}
