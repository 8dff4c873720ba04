package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLChunks_KeysInOrder(t *testing.T) {
	urls := make([]string, 25)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://shop.example/%d", i)
	}
	m := NewManifest(urls, "https://www.ulta.com/brand/it-cosmetics", "it-cosmetics")

	b, err := json.Marshal(m)
	require.NoError(t, err)
	s := string(b)

	i1 := strings.Index(s, `"array1"`)
	i2 := strings.Index(s, `"array2"`)
	i3 := strings.Index(s, `"array3"`)
	assert.True(t, i1 >= 0 && i1 < i2 && i2 < i3, s)
	assert.NotContains(t, s, `"array4"`)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	urls := []string{
		"https://www.ulta.com/p/a?sku=1&color=red",
		"https://www.ulta.com/p/b?sku=2",
	}

	require.NoError(t, WriteManifest(path, NewManifest(urls, "https://www.ulta.com/brand/it-cosmetics", "it-cosmetics")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "sku=1&color=red", "ampersands are not escaped")
	assert.Contains(t, string(raw), "\n  \"summary\"", "two-space indent")

	var decoded struct {
		URLs    map[string][]string `json:"urls"`
		Summary struct {
			ExtraTags     []string `json:"extra_tags"`
			CollectionURL []string `json:"collection_url"`
			TotalProducts int      `json:"total_products"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, map[string][]string{"array1": urls}, decoded.URLs)
	assert.Equal(t, []string{"it-cosmetics"}, decoded.Summary.ExtraTags)
	assert.Equal(t, []string{"https://www.ulta.com/brand/it-cosmetics"}, decoded.Summary.CollectionURL)
	assert.Equal(t, 2, decoded.Summary.TotalProducts)
}

func TestNewManifest_Empty(t *testing.T) {
	b, err := json.Marshal(NewManifest(nil, "https://www.ulta.com/", ""))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"urls":{},"summary":{"extra_tags":[],"collection_url":["https://www.ulta.com/"],"total_products":0}}`,
		string(b))
}
