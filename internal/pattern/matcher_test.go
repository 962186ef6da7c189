package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

func TestAttributeMatches_EmptyPatterns(t *testing.T) {
	assert.True(t, attributeMatches("anything", true, nil))
	assert.True(t, attributeMatches("anything", true, []string{}))
	// no constraint even when the value is absent
	assert.True(t, attributeMatches("", false, nil))
}

func TestAttributeMatches_AbsentValue(t *testing.T) {
	assert.False(t, attributeMatches("", false, []string{"Google"}))
}

func TestAttributeMatches_RegexCaseInsensitive(t *testing.T) {
	assert.True(t, attributeMatches("Google", true, []string{"goo.le"}))
	assert.True(t, attributeMatches("Google LLC", true, []string{"^google"}))
	assert.False(t, attributeMatches("Alphabet", true, []string{"^google$"}))
}

func TestAttributeMatches_OrAcrossPatterns(t *testing.T) {
	assert.True(t, attributeMatches("Alphabet", true, []string{"^google$", "alpha"}))
	assert.False(t, attributeMatches("Meta", true, []string{"^google$", "alpha"}))
}

func TestAttributeMatches_InvalidRegexFallsBackToSubstring(t *testing.T) {
	// "c++" is not a valid regex; it must behave as a literal filter
	assert.True(t, attributeMatches("Loves C++ dearly", true, []string{"c++"}))
	assert.False(t, attributeMatches("Loves C dearly", true, []string{"c++"}))
	assert.True(t, attributeMatches("a(b", true, []string{"A(B"}))
}

func TestEntityAttribute(t *testing.T) {
	e := apptype.Entity{ID: "e1", LabelNormalized: "Google", EntityType: "Organization"}

	v, ok := entityAttribute(e, "id")
	assert.True(t, ok)
	assert.Equal(t, "e1", v)

	v, ok = entityAttribute(e, "labelNormalized")
	assert.True(t, ok)
	assert.Equal(t, "Google", v)

	v, ok = entityAttribute(e, "type")
	assert.True(t, ok)
	assert.Equal(t, "Organization", v)

	_, ok = entityAttribute(e, "unknown")
	assert.False(t, ok)
}
