package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siftlabs/sift/pkg/models"
)

func TestLocate_ExactFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "LoginTest.java")
	if err := os.WriteFile(testFile, []byte("public class LoginTest {}"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Locate(testFile, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Type != TargetFile {
		t.Errorf("expected type %q, got %q", TargetFile, result.Type)
	}
	if result.Path != testFile {
		t.Errorf("expected path %q, got %q", testFile, result.Path)
	}
}

func TestLocate_ExactFilePath_NotFound(t *testing.T) {
	result, err := Locate("/nonexistent/path/LoginTest.java", nil)

	// not an exact path, and with no cases there is nothing to fall back to
	if err == nil {
		t.Fatal("expected error for nonexistent path with no fallback")
	}
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestLocate_GlobPattern_SingleMatch(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "features")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	testFile := filepath.Join(subDir, "login.feature")
	if err := os.WriteFile(testFile, []byte("Feature: Login"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Locate("**/login.feature", nil, WithBaseDir(tmpDir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Type != TargetFile {
		t.Errorf("expected type %q, got %q", TargetFile, result.Type)
	}
	if result.Path != testFile {
		t.Errorf("expected path %q, got %q", testFile, result.Path)
	}
}

func TestLocate_GlobPattern_MultipleMatches(t *testing.T) {
	tmpDir := t.TempDir()
	dir1 := filepath.Join(tmpDir, "module", "a")
	dir2 := filepath.Join(tmpDir, "module", "b")
	if err := os.MkdirAll(dir1, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir2, 0755); err != nil {
		t.Fatal(err)
	}
	file1 := filepath.Join(dir1, "SmokeTest.java")
	file2 := filepath.Join(dir2, "SmokeTest.java")
	if err := os.WriteFile(file1, []byte("class SmokeTest {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file2, []byte("class SmokeTest {}"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Locate("**/SmokeTest.java", nil, WithBaseDir(tmpDir))
	if err != ErrAmbiguousMatch {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
}

func TestLocate_Basename_SingleMatch(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "src", "test")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	testFile := filepath.Join(subDir, "CheckoutTest.java")
	if err := os.WriteFile(testFile, []byte("class CheckoutTest {}"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Locate("CheckoutTest.java", nil, WithBaseDir(tmpDir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Type != TargetFile {
		t.Errorf("expected type %q, got %q", TargetFile, result.Type)
	}
	if result.Path != testFile {
		t.Errorf("expected path %q, got %q", testFile, result.Path)
	}
}

func testCases() []models.NeutralTestCase {
	return []models.NeutralTestCase{
		{
			Framework:  "junit5",
			Package:    "com.example",
			ClassName:  "LoginTest",
			MethodName: "successfulLogin",
			FilePath:   "src/test/java/LoginTest.java",
			LineNumber: 14,
		},
		{
			Framework:  "junit5",
			Package:    "com.example",
			ClassName:  "LoginTest",
			MethodName: "lockedAccount",
			FilePath:   "src/test/java/LoginTest.java",
			LineNumber: 22,
		},
		{
			Framework:  "testng",
			Package:    "com.example.admin",
			ClassName:  "AdminTest",
			MethodName: "successfulLogin",
			FilePath:   "src/test/java/AdminTest.java",
			LineNumber: 9,
		},
	}
}

func TestLocate_TestByQualifiedName(t *testing.T) {
	result, err := Locate("com.example.LoginTest#successfulLogin", testCases())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Type != TargetTest {
		t.Errorf("expected type %q, got %q", TargetTest, result.Type)
	}
	if result.Case == nil {
		t.Fatal("expected case, got nil")
	}
	if result.Case.MethodName != "successfulLogin" || result.Case.ClassName != "LoginTest" {
		t.Errorf("resolved wrong case: %+v", result.Case)
	}
	if result.Path != "src/test/java/LoginTest.java" {
		t.Errorf("expected source path, got %q", result.Path)
	}
}

func TestLocate_TestByClassName_MultipleMatches(t *testing.T) {
	result, err := Locate("LoginTest", testCases())
	if err != ErrAmbiguousMatch {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Qualified != "com.example.LoginTest#successfulLogin" {
		t.Errorf("unexpected candidate: %+v", result.Candidates[0])
	}
}

func TestLocate_TestByMethodName_AcrossClasses(t *testing.T) {
	result, err := Locate("lockedAccount", testCases())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Type != TargetTest {
		t.Errorf("expected type %q, got %q", TargetTest, result.Type)
	}
	if result.Case.LineNumber != 22 {
		t.Errorf("expected line 22, got %d", result.Case.LineNumber)
	}

	_, err = Locate("successfulLogin", testCases())
	if err != ErrAmbiguousMatch {
		t.Fatalf("expected ErrAmbiguousMatch for shared method name, got %v", err)
	}
}

func TestLocate_TestNotFound(t *testing.T) {
	_, err := Locate("NoSuchTest", testCases())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
