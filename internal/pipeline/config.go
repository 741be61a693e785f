package pipeline

import (
	"fmt"
	"strings"

	"github.com/oukeidos/imgtrans/internal/prompt"
)

// Config holds what a bucket run needs beyond its collaborators.
type Config struct {
	// OutputDir, when set, is used as the run directory. It may already
	// exist, in which case translated files found there are not redone.
	OutputDir string
	// BaseDir is where a fresh timestamped run directory is created when
	// OutputDir is empty. Defaults to the working directory.
	BaseDir string

	TargetLanguage string
}

// Normalize fills defaults and returns any adjustments made.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	c.TargetLanguage = strings.TrimSpace(c.TargetLanguage)
	if c.TargetLanguage == "" {
		c.TargetLanguage = prompt.DefaultTargetLanguage
		notes = append(notes, fmt.Sprintf("target language defaulted to %s", prompt.DefaultTargetLanguage))
	}
	if strings.TrimSpace(c.BaseDir) == "" {
		c.BaseDir = "."
	}
	return c, notes
}

// RunContext is the scope of one run. SourceLanguage is set once, from
// the first image in sorted order.
type RunContext struct {
	ID             string
	Bucket         string
	OutputDir      string
	TargetLanguage string
	SourceLanguage string
}
