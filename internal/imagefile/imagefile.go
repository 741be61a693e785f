// Package imagefile knows which files are images and how translated
// copies are named.
package imagefile

import (
	"mime"
	"path/filepath"
	"strings"
)

// TranslatedMarker is inserted before the extension of translated copies.
// Object names containing it are never treated as originals.
const TranslatedMarker = "_translated"

// DefaultMIMEType is used when an extension cannot be resolved.
const DefaultMIMEType = "image/jpeg"

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// IsImage reports whether name ends in a supported image extension,
// ignoring case.
func IsImage(name string) bool {
	_, ok := imageTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsTranslated reports whether name carries the translated marker anywhere.
func IsTranslated(name string) bool {
	return strings.Contains(name, TranslatedMarker)
}

// MIMEType resolves the MIME type of path from its extension. Unknown
// extensions fall back to DefaultMIMEType.
func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := imageTypes[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			if media, _, ok := strings.Cut(t, ";"); ok {
				t = media
			}
			return strings.TrimSpace(t)
		}
	}
	return DefaultMIMEType
}

// TranslatedPath inserts TranslatedMarker between the stem and the
// extension of path: "dir/a.png" becomes "dir/a_translated.png". A base
// name that starts with its only dot, like ".png", has no extension and
// gets the marker appended.
func TranslatedPath(path string) string {
	dir, base := filepath.Split(path)
	stem, ext := splitExt(base)
	return dir + stem + TranslatedMarker + ext
}

func splitExt(base string) (stem, ext string) {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || strings.Trim(base[:i], ".") == "" {
		return base, ""
	}
	return base[:i], base[i:]
}
