package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"empty strings dropped", []string{"", "smoke", ""}, []string{"smoke"}},
		{"duplicates collapse", []string{"smoke", "regression", "smoke"}, []string{"regression", "smoke"}},
		{"sorted output", []string{"z", "a", "m"}, []string{"a", "m", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeTags(tt.in))
		})
	}
}

func TestExamplesTableValidRowCount(t *testing.T) {
	table := ExamplesTableRecord{
		Headers: []string{"user", "result"},
		Rows: [][]string{
			{"alice", "ok"},
			{"bob"}, // defective: short row
			{"carol", "denied"},
		},
		Defects: []RowMismatch{{RowIndex: 1, Want: 2, Got: 1}},
	}

	assert.Equal(t, 2, table.ValidRowCount())
	assert.True(t, table.IsValid())
}

func TestOutlineTotalCases(t *testing.T) {
	outline := ScenarioOutlineRecord{
		Name: "Login with <user>",
		Tables: []ExamplesTableRecord{
			{Headers: []string{"user"}, Rows: [][]string{{"a"}, {"b"}}},
			{Headers: []string{"user"}, Rows: [][]string{{"c"}, {"d"}, {"e"}}},
		},
	}

	assert.Equal(t, 5, outline.TotalCases())
	assert.False(t, outline.HasDefects())
}

func TestNeutralTestCaseID(t *testing.T) {
	a := NeutralTestCase{Framework: "junit5", ClassName: "LoginTest", MethodName: "testLogin", LineNumber: 12}
	b := NeutralTestCase{Framework: "junit5", ClassName: "LoginTest", MethodName: "testLogin", LineNumber: 12}
	c := NeutralTestCase{Framework: "testng", ClassName: "LoginTest", MethodName: "testLogin", LineNumber: 12}

	assert.Equal(t, a.ID(), b.ID(), "identical cases must fingerprint identically")
	assert.NotEqual(t, a.ID(), c.ID(), "framework change must change the fingerprint")
}

func TestQualifiedName(t *testing.T) {
	c := NeutralTestCase{Package: "com.example", ClassName: "LoginTest", MethodName: "testLogin"}
	assert.Equal(t, "com.example.LoginTest#testLogin", c.QualifiedName())

	c.Package = ""
	assert.Equal(t, "LoginTest#testLogin", c.QualifiedName())
}

func TestAttrValueHelpers(t *testing.T) {
	assert.True(t, BoolValue(true).IsTrue())
	assert.True(t, BoolValue(false).IsFalse())
	assert.Equal(t, "a,b", ListValue("{a, b}", []string{"a", "b"}).String())
	assert.Equal(t, "raw()", RawString("raw()").String())
	assert.Equal(t, "7", IntValue("7", 7).Raw)
}

func TestAnnotationLookups(t *testing.T) {
	ann := SourceAnnotation{
		Name: "Test",
		Attributes: map[string]AttrValue{
			"dataProvider": StringValue("loginData"),
			"enabled":      BoolValue(false),
		},
	}

	assert.Equal(t, "loginData", ann.AttrString("dataProvider"))
	assert.Equal(t, "", ann.AttrString("missing"))
	assert.Equal(t, []string{"dataProvider", "enabled"}, ann.AttrKeys())

	m := TestMethodRecord{MethodName: "login", Annotations: []SourceAnnotation{ann}}
	assert.True(t, m.HasAnnotation("Test"))
	got, ok := m.Annotation("Test")
	assert.True(t, ok)
	assert.True(t, got.Attributes["enabled"].IsFalse())
}

func TestInventoryCounts(t *testing.T) {
	inv := Inventory{
		Cases: []NeutralTestCase{
			{Framework: "junit5", IsParameterized: true},
			{Framework: "testng", IsDisabled: true},
			{Framework: "testng"},
		},
		Outlines: []ScenarioOutlineRecord{
			{Tables: []ExamplesTableRecord{{Headers: []string{"h"}, Rows: [][]string{{"1"}, {"2"}}}}},
		},
	}

	assert.Equal(t, 5, inv.CountCases())
	assert.Equal(t, 1, inv.CountDisabled())
	assert.Equal(t, 1, inv.CountParameterized())
	assert.Equal(t, map[string]int{"junit5": 1, "testng": 2}, inv.ByFramework())
}
