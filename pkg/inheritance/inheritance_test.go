package inheritance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsAcyclicChain(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "SecureLoginPage", Parent: "LoginPage"},
		{Name: "LoginPage", Parent: "BasePage"},
		{Name: "BasePage"},
	})

	assert.Equal(t, 2, r.Level("SecureLoginPage"))
	assert.Equal(t, 1, r.Level("LoginPage"))
	assert.Equal(t, 0, r.Level("BasePage"))
}

func TestLevelParentOutsideSet(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "LoginPage", Parent: "FrameworkBase"}, // FrameworkBase not scanned
	})

	assert.Equal(t, 0, r.Level("LoginPage"),
		"ancestor outside the set is a level-0 root")
}

func TestLevelSelfCycle(t *testing.T) {
	r := NewResolver([]Class{{Name: "A", Parent: "A"}})
	assert.Equal(t, 0, r.Level("A"))
}

func TestLevelTwoCycle(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "A", Parent: "B"},
		{Name: "B", Parent: "A"},
	})

	assert.Equal(t, 0, r.Level("A"))
	assert.Equal(t, 0, r.Level("B"))
}

func TestLevelLongCycle(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "A", Parent: "B"},
		{Name: "B", Parent: "C"},
		{Name: "C", Parent: "D"},
		{Name: "D", Parent: "A"},
	})

	for _, name := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, 0, r.Level(name), "cycle member %s", name)
	}
}

func TestLevels(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "Base"},
		{Name: "Mid", Parent: "Base"},
		{Name: "Leaf", Parent: "Mid"},
	})

	assert.Equal(t, map[string]int{"Base": 0, "Mid": 1, "Leaf": 2}, r.Levels())
}

func TestChildren(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "Base"},
		{Name: "LoginPage", Parent: "Base"},
		{Name: "HomePage", Parent: "Base"},
		{Name: "Orphan", Parent: "Unscanned"},
	})

	children := r.Children()
	assert.Equal(t, []string{"HomePage", "LoginPage"}, children["Base"])
	assert.NotContains(t, children, "Unscanned",
		"parents outside the set do not appear as keys")
}

func TestBaseClasses(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "Base"},
		{Name: "LoginPage", Parent: "Base"},
		{Name: "Orphan", Parent: "Unscanned"},
	})

	assert.Equal(t, []string{"Base", "Orphan"}, r.BaseClasses())
}

func TestDuplicateNamesFirstWins(t *testing.T) {
	r := NewResolver([]Class{
		{Name: "Page", Parent: "Base"},
		{Name: "Page", Parent: "Other"},
		{Name: "Base"},
	})

	assert.Equal(t, 1, r.Level("Page"))
}
