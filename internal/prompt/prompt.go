// Package prompt holds the instruction text sent to the models and the
// interactive confirmation used by the CLI.
package prompt

import (
	"fmt"
	"strings"
)

// DefaultTargetLanguage is used when no target language is configured.
const DefaultTargetLanguage = "English"

// DetectInstruction asks a text model for the single dominant language of
// the text rendered in an image. It leans away from English because the
// source images are rarely English.
const DetectInstruction = "What language is the text in this image? " +
	"Reply with ONLY the language name (e.g., 'Korean', 'Japanese', 'Chinese', 'English'). " +
	"If multiple languages appear, reply with the primary/dominant language. " +
	"Something other than English is the likely answer."

const translateTemplate = `Translate the text in this %[1]s marketing product image to %[2]s.
Only the text changes: every translated string stays where the original text was, and nothing other than text is touched.
Do not add any text where there was none in the original image. Keep the original design apart from the text.

[CRITICAL: ASPECT RATIO PRESERVATION]
1. Do not stretch, squash, or distort the image or any part of it.
2. Do not trim or crop any part of the image.
3. Every image chunk keeps its original width-to-height ratio. A long image may be split into chunks placed side by side.
4. If chunks are placed side by side, do not resize them to fit a frame. Place them on a larger canvas with neutral white padding instead.
5. Products and people keep exactly the physical proportions they have in the source.
`

// Build returns the translation instruction for one image. An empty
// target falls back to DefaultTargetLanguage; an empty source is described
// generically.
func Build(target, source string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		target = DefaultTargetLanguage
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = "source-language"
	}
	return fmt.Sprintf(translateTemplate, source, target)
}
