package textscan

import (
	"testing"

	"github.com/siftlabs/sift/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTypeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind models.AttrKind
		str  string
	}{
		{"bool true", "true", models.AttrBool, "true"},
		{"bool false", " false ", models.AttrBool, "false"},
		{"integer", "42", models.AttrInt, "42"},
		{"double quoted", `"smoke"`, models.AttrString, "smoke"},
		{"single quoted", `'smoke'`, models.AttrString, "smoke"},
		{"array", `{"a", "b"}`, models.AttrList, "a,b"},
		{"raw expression", "TimeUnit.SECONDS", models.AttrRaw, "TimeUnit.SECONDS"},
		{"raw method call", "dataFile()", models.AttrRaw, "dataFile()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := TypeValue(tt.raw)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestTypeValueNegativeNumber(t *testing.T) {
	// strconv accepts a sign, so negative literals type as integers
	v := TypeValue("-3")
	assert.Equal(t, models.AttrInt, v.Kind)
	assert.Equal(t, -3, v.Int)
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel(`a = f(x, y), b = "1,2", c = {d, e}`, ',')
	assert.Equal(t, []string{`a = f(x, y)`, ` b = "1,2"`, ` c = {d, e}`}, parts)
}

func TestParseAttributesEmpty(t *testing.T) {
	assert.Nil(t, ParseAttributes(""))
	assert.Nil(t, ParseAttributes("   "))
}
