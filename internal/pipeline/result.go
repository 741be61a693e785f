package pipeline

// RunStatus is the terminal state of a run.
type RunStatus string

const (
	RunStatusSuccess        RunStatus = "Success"
	RunStatusPartialSuccess RunStatus = "Partial Success"
	RunStatusFailure        RunStatus = "Failure"
	RunStatusEmpty          RunStatus = "Empty"
	RunStatusCanceled       RunStatus = "Canceled"
)

// Outcome is what happened to one image.
type Outcome string

const (
	OutcomeTranslated Outcome = "translated"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

// ImageResult is the outcome for one downloaded image. OutputPath names
// the translated file when Outcome is translated or skipped.
type ImageResult struct {
	InputPath  string
	OutputPath string
	Outcome    Outcome
	Err        error
}

// Success reports whether a translated file exists for the image.
func (r ImageResult) Success() bool {
	return r.Outcome == OutcomeTranslated || r.Outcome == OutcomeSkipped
}

// Result summarizes a run.
type Result struct {
	Status          RunStatus
	Run             RunContext
	SourceDefaulted bool
	Images          []ImageResult
}

// Count returns how many images ended with outcome o.
func (r Result) Count(o Outcome) int {
	n := 0
	for _, img := range r.Images {
		if img.Outcome == o {
			n++
		}
	}
	return n
}

func statusFromImages(images []ImageResult, canceled bool) RunStatus {
	if canceled {
		return RunStatusCanceled
	}
	succeeded := 0
	for _, img := range images {
		if img.Success() {
			succeeded++
		}
	}
	switch {
	case len(images) == 0:
		return RunStatusEmpty
	case succeeded == len(images):
		return RunStatusSuccess
	case succeeded == 0:
		return RunStatusFailure
	default:
		return RunStatusPartialSuccess
	}
}
