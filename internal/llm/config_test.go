package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_GetModel(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestConfig_GetModel_FallbackChain(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "only-lite"},
	}

	// Unconfigured tiers fall back to standard, then lite
	assert.Equal(t, "only-lite", config.GetModel(TierAdvanced))

	empty := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestConfig_WithModel(t *testing.T) {
	config := DefaultConfig()
	updated := config.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", updated.GetModel(TierStandard))
	// Original is unchanged
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
}

func TestBuildExtractionPrompt(t *testing.T) {
	schema := CandidateFactsSchema()
	prompt := BuildExtractionPrompt(schema, "Jane Doe\nSoftware Engineer at Acme")

	assert.True(t, strings.Contains(prompt, "resume parser"))
	assert.True(t, strings.Contains(prompt, "\"experience\""))
	assert.True(t, strings.Contains(prompt, "\"skills\""))
	assert.True(t, strings.Contains(prompt, "(required)"))
	assert.True(t, strings.Contains(prompt, "Jane Doe"))
}
