package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oukeidos/imgtrans/internal/httpclient"
	"github.com/oukeidos/imgtrans/internal/logger"
	"github.com/oukeidos/imgtrans/internal/prompt"
	"google.golang.org/genai"
)

const (
	DefaultDetectModel      = "gemini-2.0-flash"
	DefaultImageSize        = "2K"
	DefaultFallbackLanguage = "Korean"
)

// Client wraps the Gemini models used for detection and translation.
type Client struct {
	gen  Generator
	opts Options

	mu    sync.Mutex
	usage Usage
}

// NewClient connects to Gemini. It does not issue any request.
func NewClient(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	// option.WithHTTPClient is avoided: it bypasses the SDK's own auth
	// header injection. Timeouts are enforced per request via context.
	cfg := &genai.ClientConfig{}
	if key := strings.TrimSpace(creds.APIKey); key != "" {
		cfg.APIKey = key
		cfg.Backend = genai.BackendGeminiAPI
	} else {
		cfg.Backend = genai.BackendVertexAI
		cfg.Project = creds.Project
		cfg.Location = creds.Location
		logger.Info("Using Vertex AI for Gemini", "project", creds.Project, "location", creds.Location)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, classifyError("client setup", err)
	}
	return NewWithGenerator(client.Models, opts), nil
}

// NewWithGenerator builds a Client over any Generator. Zero-valued options
// take their defaults.
func NewWithGenerator(gen Generator, opts Options) *Client {
	if opts.DetectModel == "" {
		opts.DetectModel = DefaultDetectModel
	}
	if opts.ImageSize == "" {
		opts.ImageSize = DefaultImageSize
	}
	if opts.FallbackLanguage == "" {
		opts.FallbackLanguage = DefaultFallbackLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = httpclient.DefaultTimeout
	}
	return &Client{gen: gen, opts: opts}
}

// Usage returns the token counts accumulated so far.
func (c *Client) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *Client) record(md *genai.GenerateContentResponseUsageMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage.add(md)
}

func (c *Client) countRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage.Requests++
}

// DetectLanguage asks the detection model for the dominant language of the
// text in an image. Any failure, including an empty answer, yields the
// fallback language with Defaulted set. It never returns an error.
func (c *Client) DetectLanguage(ctx context.Context, image []byte, mimeType string) Detection {
	logger.Info("Detecting language in image", "model", c.opts.DetectModel)

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt.DetectInstruction),
		}, genai.RoleUser),
	}

	c.countRequest()
	resp, err := c.gen.GenerateContent(ctx, c.opts.DetectModel, contents, nil)
	if err != nil {
		return c.fallback(classifyError("language detection", err))
	}
	c.record(resp.UsageMetadata)

	detected := strings.TrimSpace(responseText(resp))
	if detected == "" {
		return c.fallback(fmt.Errorf("language detection returned no text"))
	}
	logger.Info("Detected language", "language", detected)
	return Detection{Language: detected}
}

func (c *Client) fallback(err error) Detection {
	logger.Warn("Language detection failed, using fallback",
		"language", c.opts.FallbackLanguage, "error", err)
	return Detection{Language: c.opts.FallbackLanguage, Defaulted: true, Err: err}
}

// TranslateImage asks the image model to redraw image with its text
// translated from source to target. The response stream is read only up to
// the first chunk that carries inline image data; later chunks are never
// pulled.
func (c *Client) TranslateImage(ctx context.Context, image []byte, mimeType, target, source string) Translation {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt.Build(target, source)),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		CandidateCount:     1,
		ImageConfig:        &genai.ImageConfig{ImageSize: c.opts.ImageSize},
	}

	c.countRequest()
	chunks := 0
	for resp, err := range c.gen.GenerateContentStream(ctx, c.opts.ImageModel, contents, config) {
		if err != nil {
			return Translation{Err: classifyError("image translation", err)}
		}
		chunks++
		c.record(resp.UsageMetadata)
		if blob := firstInlineData(resp); blob != nil {
			logger.Debug("Image received", "chunks", chunks, "bytes", len(blob.Data))
			// Blob.Data is already base64-decoded by the SDK.
			return Translation{Data: blob.Data, MIMEType: blob.MIMEType}
		}
	}
	if err := ctx.Err(); err != nil {
		return Translation{Err: classifyError("image translation", err)}
	}
	return Translation{Err: ErrNoImage}
}

// firstInlineData returns the first non-empty inline blob of the first
// candidate, if any.
func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
