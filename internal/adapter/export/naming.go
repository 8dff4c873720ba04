package export

import (
	"regexp"
	"strings"
	"time"
)

const (
	chunkSize  = 10
	missingSKU = "N/A"
	isoMillis  = "2006-01-02T15:04:05.000Z"
)

var skuPattern = regexp.MustCompile(`sku=(\d+)`)

// SKU returns the digits of a sku=<digits> query parameter, or "N/A".
func SKU(productURL string) string {
	m := skuPattern.FindStringSubmatch(productURL)
	if m == nil {
		return missingSKU
	}
	return m[1]
}

// FileBase turns a collection path such as "brand/it-cosmetics" into a
// filename stem.
func FileBase(collectionPath string) string {
	base := strings.ReplaceAll(strings.Trim(collectionPath, "/"), "/", "_")
	if base == "" {
		return "listing"
	}
	return base
}

// ISOTimestamp formats t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// FileTimestamp is ISOTimestamp made safe for filenames.
func FileTimestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(ISOTimestamp(t))
}

// ChunkURLs splits urls into consecutive groups of size, the last one
// possibly shorter.
func ChunkURLs(urls []string, size int) [][]string {
	if size <= 0 {
		size = chunkSize
	}
	chunks := make([][]string, 0, (len(urls)+size-1)/size)
	for start := 0; start < len(urls); start += size {
		end := min(start+size, len(urls))
		chunks = append(chunks, urls[start:end])
	}
	return chunks
}
