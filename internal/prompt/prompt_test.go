package prompt

import (
	"strings"
	"testing"
)

func TestBuild_EmbedsLanguages(t *testing.T) {
	p := Build("French", "Korean")
	if !strings.Contains(p, "Korean marketing product image to French") {
		t.Fatalf("prompt does not carry both languages:\n%s", p)
	}
}

func TestBuild_DefaultsTargetToEnglish(t *testing.T) {
	p := Build("  ", "Japanese")
	if !strings.Contains(p, "to English.") {
		t.Fatalf("empty target should default to English:\n%s", p)
	}
}

func TestBuild_Constraints(t *testing.T) {
	p := strings.ToLower(Build("German", "Korean"))
	for _, want := range []string{
		"only the text changes",
		"aspect ratio",
		"do not stretch, squash, or distort",
		"do not trim or crop",
		"white padding",
		"do not add any text",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	if Build("Spanish", "Chinese") != Build("Spanish", "Chinese") {
		t.Fatalf("Build must be deterministic")
	}
}
