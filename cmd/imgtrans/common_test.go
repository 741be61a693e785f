package main

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/imgtrans/internal/auth"
	"github.com/oukeidos/imgtrans/internal/config"
	"github.com/oukeidos/imgtrans/internal/files"
	"github.com/oukeidos/imgtrans/internal/gemini"
	"github.com/oukeidos/imgtrans/internal/objectstore"
	"github.com/oukeidos/imgtrans/internal/pipeline"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// clearConfigEnv unsets every variable the config reads so the host
// environment cannot leak into a test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	names := append([]string{
		"GCS_BUCKET_NAME", "TRANSLATE_LANGUAGE", "GENERAL_LLM_MODEL", "IMAGE_MODEL",
		"IMAGE_RESOLUTION", "FALLBACK_SOURCE_LANGUAGE", "STORE_BACKEND", "MINIO_ENDPOINT",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "REQUEST_TIMEOUT", "LOG_LEVEL",
	}, auth.EnvVars...)
	for _, name := range names {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

type keyStubs struct {
	keyCalls int
	envCalls int
}

func withKeyStubs(t *testing.T, keychainVal, envVal string) *keyStubs {
	t.Helper()
	stubs := &keyStubs{}
	prevGetKey := getKey
	prevGetEnv := getEnvKey

	getKey = func(_ bool) (string, string) {
		stubs.keyCalls++
		if keychainVal == "" {
			return "", ""
		}
		return keychainVal, auth.SourceKeychain
	}
	getEnvKey = func() (string, bool) {
		stubs.envCalls++
		return envVal, envVal != ""
	}
	t.Cleanup(func() {
		getKey = prevGetKey
		getEnvKey = prevGetEnv
	})
	return stubs
}

type memBucket struct {
	name    string
	order   []string
	objects map[string][]byte
	uploads map[string][]byte
	closed  bool
}

func (m *memBucket) Name() string { return m.name }

func (m *memBucket) List(_ context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, name := range m.order {
			if !yield(name, nil) {
				return
			}
		}
	}
}

func (m *memBucket) Download(_ context.Context, object, localPath string) error {
	return files.AtomicWriteUnder(filepath.Dir(localPath), localPath, m.objects[object], 0o644)
}

func (m *memBucket) Upload(_ context.Context, localPath, object string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	m.uploads[object] = data
	return nil
}

func (m *memBucket) Close() error {
	m.closed = true
	return nil
}

type stubModel struct {
	creds   gemini.Credentials
	opts    gemini.Options
	targets []string
	fail    bool
}

func (m *stubModel) DetectLanguage(_ context.Context, _ []byte, _ string) gemini.Detection {
	return gemini.Detection{Language: "Korean"}
}

func (m *stubModel) TranslateImage(_ context.Context, image []byte, _, target, _ string) gemini.Translation {
	m.targets = append(m.targets, target)
	if m.fail {
		return gemini.Translation{Err: gemini.ErrNoImage}
	}
	return gemini.Translation{Data: append([]byte("T:"), image...), MIMEType: "image/png"}
}

func (m *stubModel) Usage() gemini.Usage {
	return gemini.Usage{Requests: 1 + len(m.targets), PromptTokens: 100, CandidateTokens: 50, TotalTokens: 150}
}

type collaborators struct {
	bucket      *memBucket
	model       *stubModel
	bucketCalls int
	modelCalls  int
}

func withCollaborators(t *testing.T, objects map[string][]byte, order ...string) *collaborators {
	t.Helper()
	c := &collaborators{
		bucket: &memBucket{name: "catalog", order: order, objects: objects, uploads: map[string][]byte{}},
		model:  &stubModel{},
	}
	prevOpen := openBucket
	prevModel := newModel
	openBucket = func(_ context.Context, _ *config.Config, name string) (objectstore.Bucket, error) {
		c.bucketCalls++
		c.bucket.name = name
		return c.bucket, nil
	}
	newModel = func(_ context.Context, creds gemini.Credentials, opts gemini.Options) (imageModel, error) {
		c.modelCalls++
		c.model.creds = creds
		c.model.opts = opts
		return c.model, nil
	}
	t.Cleanup(func() {
		openBucket = prevOpen
		newModel = prevModel
	})
	return c
}

func TestResolveAPIKey(t *testing.T) {
	cases := []struct {
		name       string
		keychain   string
		env        string
		envOnly    bool
		vertex     bool
		wantKey    string
		wantSource string
	}{
		{"keychain first", "kc-key", "env-key", false, false, "kc-key", auth.SourceKeychain},
		{"env fallback", "", "env-key", false, false, "env-key", auth.SourceEnv},
		{"env only skips keychain", "kc-key", "env-key", true, false, "env-key", auth.SourceEnv},
		{"nothing means vertex", "", "", false, false, "", ""},
		{"vertex forced", "kc-key", "env-key", false, true, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubs := withKeyStubs(t, tc.keychain, tc.env)
			key, source := resolveAPIKey(tc.envOnly, tc.vertex)
			if key != tc.wantKey || source != tc.wantSource {
				t.Fatalf("resolveAPIKey() = (%q, %q), want (%q, %q)", key, source, tc.wantKey, tc.wantSource)
			}
			if tc.envOnly && stubs.keyCalls != 0 {
				t.Fatalf("keychain consulted with --env-only")
			}
		})
	}
}

func TestValidateImageExtension(t *testing.T) {
	if err := validateImageExtension("input", "banner.PNG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := validateImageExtension("output", "banner.gif")
	if err == nil || !strings.Contains(err.Error(), `unsupported output extension ".gif"`) {
		t.Fatalf("unexpected error: %v", err)
	}
	err = validateImageExtension("input", "banner")
	if err == nil || !strings.Contains(err.Error(), "(none)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	res := pipeline.Result{
		Status:          pipeline.RunStatusPartialSuccess,
		Run:             pipeline.RunContext{OutputDir: "run", SourceLanguage: "Korean", TargetLanguage: "English"},
		SourceDefaulted: true,
		Images: []pipeline.ImageResult{
			{InputPath: "run/a.png", Outcome: pipeline.OutcomeTranslated},
			{InputPath: "run/b.png", Outcome: pipeline.OutcomeFailed, Err: errors.New("no image")},
		},
	}
	cfg := &config.Config{DetectModel: "gemini-2.0-flash", ImageModel: "gemini-image", ImageResolution: "2K"}
	printRunSummary(&buf, res, gemini.Usage{Requests: 3, PromptTokens: 10, CandidateTokens: 5, TotalTokens: 15}, 1500*time.Millisecond, cfg)

	out := buf.String()
	for _, want := range []string{
		"Status: Partial Success",
		"Korean (fallback) -> English",
		"translated=1 skipped=0 failed=1",
		"failed: run/b.png (no image)",
		"Tokens: In=10, Out=5, Total=15",
		"image=gemini-image (2K)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func writeEnvFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
