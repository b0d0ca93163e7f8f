package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siftlabs/sift/pkg/config"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"src/test/java/LoginTest.java", KindJava},
		{"Steps/CheckoutSteps.cs", KindCSharp},
		{"features/login.feature", KindFeature},
		{"cypress/e2e/checkout.cy.js", KindCypress},
		{"specs/cart.spec.ts", KindCypress},
		{"cypress/integration/old.js", KindCypress},
		{"src/index.js", KindUnknown},
		{"README.md", KindUnknown},
		{"pom.xml", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.path), tt.path)
	}
}

func TestScanDirGroupsByKind(t *testing.T) {
	root := t.TempDir()
	java := writeFile(t, root, "src/test/java/LoginTest.java", "public class LoginTest {}")
	feature := writeFile(t, root, "features/login.feature", "Feature: Login\n")
	cs := writeFile(t, root, "Steps/CheckoutSteps.cs", "[Binding]\npublic class CheckoutSteps {}")
	spec := writeFile(t, root, "cypress/e2e/checkout.cy.js", "it('works', () => {});")

	files, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)

	assert.Equal(t, []string{java}, files[KindJava])
	assert.Equal(t, []string{feature}, files[KindFeature])
	assert.Equal(t, []string{cs}, files[KindCSharp])
	assert.Equal(t, []string{spec}, files[KindCypress])
}

func TestScanDirSniffsPlainScripts(t *testing.T) {
	root := t.TempDir()
	sniffed := writeFile(t, root, "specs/checkout.js",
		"describe('checkout', () => { it('works', () => { cy.visit('/'); }); });")
	writeFile(t, root, "specs/util.js", "module.exports = { add: (a, b) => a + b };")

	files, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{sniffed}, files[KindCypress])
}

func TestScanDirExcludesConfiguredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/dep/dep.cy.js", "it('x', () => {});")
	writeFile(t, root, "target/Gen.java", "class Gen {}")
	kept := writeFile(t, root, "src/KeptTest.java", "class KeptTest {}")

	files, err := NewScanner(nil).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, files[KindJava])
	assert.Empty(t, files[KindCypress])
}

func TestScanDirCustomExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/GeneratedTest.java", "class GeneratedTest {}")
	kept := writeFile(t, root, "src/LoginTest.java", "class LoginTest {}")

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "Generated*.java")

	files, err := NewScanner(cfg).ScanDir(root)
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, files[KindJava])
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	java := writeFile(t, root, "LoginTest.java", "class LoginTest {}")

	kind, err := NewScanner(nil).ScanFile(java)
	require.NoError(t, err)
	assert.Equal(t, KindJava, kind)

	kind, err = NewScanner(nil).ScanFile(root)
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, kind)

	_, err = NewScanner(nil).ScanFile(filepath.Join(root, "missing.java"))
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	files := map[Kind][]string{
		KindCypress: {"c.cy.js"},
		KindJava:    {"A.java", "B.java"},
		KindFeature: {"f.feature"},
	}
	assert.Equal(t, []string{"A.java", "B.java", "f.feature", "c.cy.js"}, Flatten(files))
}

func TestFilterBySize(t *testing.T) {
	root := t.TempDir()
	small := writeFile(t, root, "small.java", "class A {}")
	big := writeFile(t, root, "big.java", string(make([]byte, 4096)))

	filtered, skipped := FilterBySize([]string{small, big}, 1024)
	assert.Equal(t, []string{small}, filtered)
	assert.Equal(t, 1, skipped)

	filtered, skipped = FilterBySize([]string{small, big}, 0)
	assert.Len(t, filtered, 2)
	assert.Zero(t, skipped)

	filtered, skipped = FilterBySize([]string{filepath.Join(root, "gone.java")}, 1024)
	assert.Empty(t, filtered)
	assert.Equal(t, 1, skipped)
}
