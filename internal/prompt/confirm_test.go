package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirmOverwrite_NonInteractive(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("y\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmOverwrite("banner_translated.png", false)
	if err == nil {
		t.Fatalf("expected error for non-interactive confirm, got ok=%v", ok)
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("error should point at --yes, got %q", err.Error())
	}
}

func TestConfirmOverwrite_Force(t *testing.T) {
	c := Confirmer{
		In:            bytes.NewBufferString("n\n"),
		IsInteractive: func() bool { return false },
	}
	ok, err := c.ConfirmOverwrite("banner_translated.png", true)
	if err != nil || !ok {
		t.Fatalf("ConfirmOverwrite(force) = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestConfirmOverwrite_Interactive(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		c := Confirmer{
			In:            bytes.NewBufferString(input),
			Out:           &out,
			IsInteractive: func() bool { return true },
		}
		ok, err := c.ConfirmOverwrite("banner_translated.png", false)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", input, err)
		}
		if ok != want {
			t.Fatalf("input %q: ok=%v, want %v", input, ok, want)
		}
		if !strings.Contains(out.String(), "banner_translated.png") {
			t.Fatalf("question should name the file, got %q", out.String())
		}
	}
}
