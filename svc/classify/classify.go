package classify

import (
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"seeshare/pkg/domain"
)

// Classify decides whether a raw string denotes a URL, a filesystem
// path, or plain text. URL detection runs first so the common case
// (sharing a web link) never touches the filesystem. Input is
// NFC-normalized so composed and decomposed spellings of the same path
// or URL classify identically.
func Classify(text string) domain.ClassifiedContent {
	trimmed := strings.TrimSpace(norm.NFC.String(text))

	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return domain.ClassifiedContent{Kind: domain.KindURL, RawValue: trimmed}
	}

	if (strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "~")) && entryExists(trimmed) {
		return domain.ClassifiedContent{Kind: domain.KindFile, RawValue: trimmed, ResolvedPath: trimmed}
	}

	return domain.ClassifiedContent{Kind: domain.KindText, RawValue: trimmed}
}

// entryExists reports whether a filesystem entry exists at path. Any
// stat failure, permission errors included, degrades to false rather
// than aborting the classification.
func entryExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolvePath decodes a raw path that may arrive as a file:// URI or a
// percent-encoded string into a plain filesystem path. Malformed
// encoding never aborts a share attempt: the input is returned
// unchanged when it cannot be decoded.
func ResolvePath(raw string) string {
	if strings.HasPrefix(raw, "file://") {
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			return u.Path
		}
		return raw
	}
	if dec, err := url.PathUnescape(raw); err == nil {
		return dec
	}
	return raw
}
