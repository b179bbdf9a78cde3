package embedded

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogProviders(t *testing.T) {
	assert.Equal(t, []string{"anthropic", "gemini", "groq", "openai"}, CatalogProviders())
}

func TestCatalogData(t *testing.T) {
	data, err := CatalogData("GROQ")
	require.NoError(t, err)
	assert.Contains(t, string(data), "llama3-70b-8192")

	_, err = CatalogData("unknown")
	assert.Error(t, err)
}

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"dark", "default", "light", "plain"}, ThemeNames())
}

func TestThemeData(t *testing.T) {
	for _, name := range ThemeNames() {
		data, err := ThemeData(name)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: "+name)
	}

	_, err := ThemeData("neon")
	assert.Error(t, err)
}
