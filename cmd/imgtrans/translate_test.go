package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranslate_MissingArgsPrintsUsage(t *testing.T) {
	out, err := executeCommand(t, "translate", "only-one.png")
	if err == nil || !strings.Contains(err.Error(), "input and output images are required") {
		t.Fatalf("expected missing-args error, got %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage not printed:\n%s", out)
	}
}

func TestTranslate_RejectsNonImageExtension(t *testing.T) {
	_, err := executeCommand(t, "translate", "in.txt", "out.png")
	if err == nil || !strings.Contains(err.Error(), `unsupported input extension ".txt"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTranslate_DefaultsToFrenchFromKorean(t *testing.T) {
	clearConfigEnv(t)
	withKeyStubs(t, "kc-key", "")
	c := withCollaborators(t, nil)
	envFile := writeEnvFile(t, "IMAGE_MODEL=gemini-image")

	dir := t.TempDir()
	in := filepath.Join(dir, "poster.png")
	if err := os.WriteFile(in, []byte("P"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "poster_fr.png")

	stdout, err := executeCommand(t, "translate", "--env", envFile, in, out)
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "T:P" {
		t.Fatalf("output = %q, %v", data, err)
	}
	if len(c.model.targets) != 1 || c.model.targets[0] != "French" {
		t.Fatalf("targets = %v, want French", c.model.targets)
	}
	if c.bucketCalls != 0 {
		t.Fatalf("single-file translate opened a bucket")
	}
	if !strings.Contains(stdout, "Saved translated image to") {
		t.Fatalf("missing confirmation:\n%s", stdout)
	}
}

func TestTranslate_ExistingOutputDeclined(t *testing.T) {
	clearConfigEnv(t)
	withKeyStubs(t, "kc-key", "")
	c := withCollaborators(t, nil)
	envFile := writeEnvFile(t, "IMAGE_MODEL=gemini-image")

	prevConfirm := confirmOverwrite
	confirmOverwrite = func(_ string, force bool) (bool, error) { return force, nil }
	t.Cleanup(func() { confirmOverwrite = prevConfirm })

	dir := t.TempDir()
	in := filepath.Join(dir, "poster.png")
	out := filepath.Join(dir, "poster_de.png")
	for _, p := range []string{in, out} {
		if err := os.WriteFile(p, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := executeCommand(t, "translate", "--env", envFile, in, out, "German"); err != nil {
		t.Fatalf("declined overwrite should not fail: %v", err)
	}
	if c.modelCalls != 0 {
		t.Fatalf("model created after declined overwrite")
	}

	if _, err := executeCommand(t, "translate", "--env", envFile, "-y", in, out, "German"); err != nil {
		t.Fatalf("translate -y failed: %v", err)
	}
	if c.model.targets[0] != "German" {
		t.Fatalf("targets = %v", c.model.targets)
	}
}

func TestDownload(t *testing.T) {
	clearConfigEnv(t)
	objects := map[string][]byte{"shoes/a.png": []byte("A"), "notes.txt": []byte("N")}
	c := withCollaborators(t, objects, "shoes/a.png", "notes.txt")
	envFile := writeEnvFile(t)
	dest := filepath.Join(t.TempDir(), "downloads")

	out, err := executeCommand(t, "download", "--env", envFile, "other-bucket", dest)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if c.bucket.name != "other-bucket" {
		t.Fatalf("opened bucket %q, want the positional bucket", c.bucket.name)
	}
	if _, err := os.Stat(filepath.Join(dest, "shoes", "a.png")); err != nil {
		t.Fatalf("image not downloaded: %v", err)
	}
	if !strings.Contains(out, "Downloaded 1 files to") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if c.modelCalls != 0 {
		t.Fatalf("download created a model client")
	}
}

func TestDownload_MissingArgs(t *testing.T) {
	_, err := executeCommand(t, "download", "bucket-only")
	if err == nil || !strings.Contains(err.Error(), "bucket and output folder are required") {
		t.Fatalf("unexpected error: %v", err)
	}
}
