package language

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantOK   bool
	}{
		{"ko", "Korean", true},
		{"Korean", "Korean", true},
		{"  english ", "English", true},
		{"FR", "French", true},
		{"zh", "Chinese (Simplified)", true},
		{"Klingon", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Lookup(tc.in)
			if ok != tc.wantOK || got.Name != tc.wantName {
				t.Fatalf("Lookup(%q) = (%q, %v), want (%q, %v)", tc.in, got.Name, ok, tc.wantName, tc.wantOK)
			}
		})
	}
}

func TestNormalize_PassesUnknownThrough(t *testing.T) {
	if got := Normalize("ja"); got != "Japanese" {
		t.Fatalf("Normalize(ja) = %q", got)
	}
	if got := Normalize(" Old Norse "); got != "Old Norse" {
		t.Fatalf("Normalize kept unknown name as %q", got)
	}
}

func TestSupported_SortedAndIndependent(t *testing.T) {
	list := Supported()
	if len(list) != len(Languages) {
		t.Fatalf("Supported() returned %d entries, want %d", len(list), len(Languages))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("not sorted at %d: %q > %q", i, list[i-1].Name, list[i].Name)
		}
	}
	list[0].Name = "mutated"
	if Languages[0].Name == "mutated" {
		t.Fatalf("Supported() must return a copy")
	}
}
