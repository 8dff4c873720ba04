package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the JSON document handed to downstream product ingestion.
type Manifest struct {
	URLs    URLChunks       `json:"urls"`
	Summary ManifestSummary `json:"summary"`
}

type ManifestSummary struct {
	ExtraTags     []string `json:"extra_tags"`
	CollectionURL []string `json:"collection_url"`
	TotalProducts int      `json:"total_products"`
}

// URLChunks encodes as {"array1": [...], "array2": [...]} with keys in
// chunk order.
type URLChunks [][]string

func (c URLChunks) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, chunk := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"array%d":`, i+1)
		if chunk == nil {
			chunk = []string{}
		}
		b, err := marshalRaw(chunk)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewManifest builds the manifest for urls collected from sourceURL.
func NewManifest(urls []string, sourceURL, brand string) *Manifest {
	tags := []string{}
	if brand != "" {
		tags = append(tags, brand)
	}
	return &Manifest{
		URLs: ChunkURLs(urls, chunkSize),
		Summary: ManifestSummary{
			ExtraTags:     tags,
			CollectionURL: []string{sourceURL},
			TotalProducts: len(urls),
		},
	}
}

// WriteManifest writes m to path as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// marshalRaw is json.Marshal without HTML escaping, so query strings keep
// their literal '&'.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
