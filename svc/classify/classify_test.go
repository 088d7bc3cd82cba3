package classify

import (
	"os"
	"path/filepath"
	"testing"

	"seeshare/pkg/domain"
)

func TestClassifyURL(t *testing.T) {
	cases := []string{
		"https://example.com/page",
		" https://example.com/page ",
		"http://example.com",
		"https://example.com/path?q=1#frag",
	}
	for _, in := range cases {
		got := Classify(in)
		if got.Kind != domain.KindURL {
			t.Errorf("Classify(%q) = %s, want url", in, got.Kind)
		}
	}
}

func TestClassifyOtherSchemesFallThrough(t *testing.T) {
	for _, in := range []string{"ftp://example.com/f", "mailto:a@b.c", "ssh://host"} {
		got := Classify(in)
		if got.Kind != domain.KindText {
			t.Errorf("Classify(%q) = %s, want text", in, got.Kind)
		}
	}
}

func TestClassifyExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got := Classify(path)
	if got.Kind != domain.KindFile {
		t.Fatalf("Classify(%q) = %s, want file", path, got.Kind)
	}
	if got.ResolvedPath != path {
		t.Errorf("ResolvedPath = %q, want %q", got.ResolvedPath, path)
	}
}

func TestClassifyMissingPathIsText(t *testing.T) {
	got := Classify("/no/such/entry/hopefully-ever")
	if got.Kind != domain.KindText {
		t.Errorf("missing path should classify as text, got %s", got.Kind)
	}
}

func TestClassifyPlainText(t *testing.T) {
	got := Classify("hello world")
	if got.Kind != domain.KindText {
		t.Errorf("Classify(plain) = %s, want text", got.Kind)
	}
	if got.RawValue != "hello world" {
		t.Errorf("RawValue = %q", got.RawValue)
	}
}

func TestClassifyTrimsWhitespace(t *testing.T) {
	got := Classify("  some text\n")
	if got.RawValue != "some text" {
		t.Errorf("RawValue not trimmed: %q", got.RawValue)
	}
}

func TestResolvePathFileURI(t *testing.T) {
	got := ResolvePath("file:///Users/me/My%20File.png")
	if got != "/Users/me/My File.png" {
		t.Errorf("file URI not decoded: %q", got)
	}
}

func TestResolvePathPercentEncoded(t *testing.T) {
	got := ResolvePath("/tmp/a%20b.txt")
	if got != "/tmp/a b.txt" {
		t.Errorf("percent decoding failed: %q", got)
	}
}

func TestResolvePathInvalidEscapeKeepsOriginal(t *testing.T) {
	in := "/tmp/100%_done.txt"
	if got := ResolvePath(in); got != in {
		t.Errorf("malformed escape must return input unchanged, got %q", got)
	}
}

func TestResolvePathPlain(t *testing.T) {
	in := "/tmp/plain.txt"
	if got := ResolvePath(in); got != in {
		t.Errorf("plain path changed: %q", got)
	}
}
