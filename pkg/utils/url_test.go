package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL_Stable(t *testing.T) {
	a := HashURL("https://www.ulta.com/brand/it-cosmetics")
	b := HashURL("https://www.ulta.com/brand/it-cosmetics")
	c := HashURL("https://www.ulta.com/brand/clinique")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://www.ulta.com/brand/it-cosmetics")
	require.NoError(t, err)

	got, err := ToAbsoluteURL(base, "/p/some-product-pimprod123?sku=2512345")
	require.NoError(t, err)
	assert.Equal(t, "https://www.ulta.com/p/some-product-pimprod123?sku=2512345", got)

	got, err = ToAbsoluteURL(base, "https://cdn.example/x")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/x", got)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "www.ulta.com", Domain("https://www.ulta.com/brand/x"))
	assert.Equal(t, "unknown", Domain("not a url"))
}

func TestCollectionPath(t *testing.T) {
	got, err := CollectionPath("https://www.ulta.com/brand/it-cosmetics/")
	require.NoError(t, err)
	assert.Equal(t, "brand/it-cosmetics", got)
}

func TestLastPathSegment(t *testing.T) {
	got, err := LastPathSegment("https://www.ulta.com/brand/ulta-beauty-collection/")
	require.NoError(t, err)
	assert.Equal(t, "ulta-beauty-collection", got)

	got, err = LastPathSegment("https://www.ulta.com")
	require.NoError(t, err)
	assert.Empty(t, got)
}
