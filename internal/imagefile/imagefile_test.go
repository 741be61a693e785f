package imagefile

import (
	"path/filepath"
	"testing"
)

func TestIsImage(t *testing.T) {
	cases := map[string]bool{
		"a.png":           true,
		"shoes/B.JPG":     true,
		"x.Jpeg":          true,
		"banner.webp":     true,
		"c.txt":           false,
		"folder/":         false,
		"archive.png.zip": false,
		"no-extension":    false,
		"photo.gif":       false,
	}
	for name, want := range cases {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	cases := map[string]string{
		"a.png":        "image/png",
		"a.JPG":        "image/jpeg",
		"a.jpeg":       "image/jpeg",
		"a.webp":       "image/webp",
		"a.gif":        "image/gif",
		"noext":        DefaultMIMEType,
		"a.unknownext": DefaultMIMEType,
	}
	for name, want := range cases {
		if got := MIMEType(name); got != want {
			t.Errorf("MIMEType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestTranslatedPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a.png", "a_translated.png"},
		{filepath.Join("run", "shoes", "b.jpg"), filepath.Join("run", "shoes", "b_translated.jpg")},
		{"archive.tar.png", "archive.tar_translated.png"},
		{"noext", "noext_translated"},
		{".png", ".png_translated"},
		{"..png", "..png_translated"},
		{filepath.Join("dir.v2", "file"), filepath.Join("dir.v2", "file_translated")},
	}
	for _, tc := range cases {
		if got := TranslatedPath(tc.in); got != tc.want {
			t.Errorf("TranslatedPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTranslatedPath_Distinct(t *testing.T) {
	originals := []string{"a.png", "a.jpg", "a", "b.png", filepath.Join("sub", "a.png")}
	seen := map[string]string{}
	for _, o := range originals {
		p := TranslatedPath(o)
		if prev, dup := seen[p]; dup {
			t.Fatalf("%q and %q both map to %q", prev, o, p)
		}
		seen[p] = o
		if !IsTranslated(p) {
			t.Fatalf("%q does not carry the marker", p)
		}
	}
}
