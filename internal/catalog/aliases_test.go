package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism_booking/internal/catalog"
)

func TestCanonical_AllSpellingsResolve(t *testing.T) {
	for _, s := range []string{"car-rental", "arenda-avtomobiley", "ARAC-KIRALAMA", "car", "rent-a-car", "/car-rental/"} {
		got, ok := catalog.Default.Canonical(s)
		assert.True(t, ok, s)
		assert.Equal(t, "car-rental", got, s)
	}
	_, ok := catalog.Default.Canonical("helicopter-tours")
	assert.False(t, ok)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "arenda-avtomobiley", catalog.Default.PathFor("car-rental", "ru"))
	assert.Equal(t, "tekne-kiralama", catalog.Default.PathFor("boat-rental", "tr"))
	// unknown locale falls back to the Turkish path
	assert.Equal(t, "villa-kiralama", catalog.Default.PathFor("villa-rental", "de"))
	assert.Equal(t, "unknown", catalog.Default.PathFor("unknown", "en"))
}

func TestParse_RejectsAmbiguousAlias(t *testing.T) {
	_, err := catalog.Parse([]byte(`
services:
  - canonical: a
    aliases: [x]
  - canonical: b
    aliases: [x]
`))
	require.Error(t, err)
}

func TestEveryEntryHasAllLocales(t *testing.T) {
	for _, e := range catalog.Default.Entries() {
		for _, l := range []string{"tr", "en", "ru", "ar"} {
			assert.NotEmpty(t, e.Paths[l], "%s missing %s path", e.Canonical, l)
		}
		assert.NotEmpty(t, e.AdminKey, e.Canonical)
	}
}
