package gemini

import (
	"context"
	"iter"
	"time"

	"google.golang.org/genai"
)

// Generator is the subset of *genai.Models the client needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

var _ Generator = (*genai.Models)(nil)

// Credentials selects the backend. A non-empty APIKey uses the Gemini
// Developer API; otherwise Vertex AI is used with application default
// credentials for Project and Location.
type Credentials struct {
	APIKey   string
	Project  string
	Location string
}

// Options configures the two model calls.
type Options struct {
	DetectModel      string
	ImageModel       string
	ImageSize        string
	FallbackLanguage string
	// Timeout bounds each request. Zero means httpclient.DefaultTimeout.
	Timeout time.Duration
}

// Detection is the outcome of a language detection call. When the call
// fails, Language holds the fallback, Defaulted is set and Err keeps the
// cause.
type Detection struct {
	Language  string
	Defaulted bool
	Err       error
}

// Translation is the outcome of an image translation call. Data is nil
// when no image came back; Err says why.
type Translation struct {
	Data     []byte
	MIMEType string
	Err      error
}

// OK reports whether the model returned image bytes.
func (t Translation) OK() bool {
	return t.Err == nil && len(t.Data) > 0
}

// Usage accumulates token counts over the lifetime of a Client.
type Usage struct {
	Requests        int
	PromptTokens    int
	CandidateTokens int
	TotalTokens     int
}

func (u *Usage) add(md *genai.GenerateContentResponseUsageMetadata) {
	if md == nil {
		return
	}
	u.PromptTokens += int(md.PromptTokenCount)
	u.CandidateTokens += int(md.CandidatesTokenCount)
	u.TotalTokens += int(md.TotalTokenCount)
}
