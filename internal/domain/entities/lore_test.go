package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty becomes unknown", input: "", expected: TypeUnknown},
		{name: "whitespace becomes unknown", input: "   ", expected: TypeUnknown},
		{name: "case preserved", input: "Character", expected: "Character"},
		{name: "trimmed", input: "  Location ", expected: "Location"},
		{name: "custom tag kept", input: "magic_system", expected: "magic_system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeType(tt.input))
		})
	}
}

func TestLoreEntity_Key(t *testing.T) {
	e := &LoreEntity{NovelID: "kurasu-de-nibanme", EntityID: "char_asanagi"}
	assert.Equal(t, "kurasu-de-nibanme/char_asanagi", e.Key())
}
