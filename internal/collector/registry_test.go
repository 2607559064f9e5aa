package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultSources(t *testing.T) {
	fetchers, err := Build(nil, &fakeOCR{})
	require.NoError(t, err)

	names := make([]string, 0, len(fetchers))
	for _, f := range fetchers {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{leharoName, naTratiName, uKohoutuName}, names)
}

func TestBuildKeepsRequestedOrder(t *testing.T) {
	fetchers, err := Build([]string{" Gourmet", "bonami", "", "sargam"}, &fakeOCR{})
	require.NoError(t, err)
	require.Len(t, fetchers, 3)

	assert.Equal(t, gourmetName, fetchers[0].Name())
	assert.Equal(t, bonAmiName, fetchers[1].Name())
	assert.Equal(t, sargamName, fetchers[2].Name())
}

func TestBuildUnknownSource(t *testing.T) {
	_, err := Build([]string{"leharo", "mcdonalds"}, nil)
	assert.ErrorContains(t, err, "mcdonalds")
}

func TestRegistryCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Registry() {
		assert.False(t, seen[s.Code], s.Code)
		seen[s.Code] = true
		assert.NotEmpty(t, s.New(nil).Name())
	}
	assert.Len(t, seen, 9)
}
