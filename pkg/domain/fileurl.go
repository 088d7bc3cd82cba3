package domain

import (
	"fmt"
	"net/url"
)

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// ResolveFileURL computes the single canonical public URL for an
// uploaded file. An explicitly requested domain always wins, even when
// the server response carried its own URLs; otherwise the first
// well-formed http(s) candidate among page, direct URL and path is
// taken. When none qualify the upload succeeded remotely but produced
// no usable result, which is surfaced as ErrNoShareableURL rather than
// a transport failure.
func ResolveFileURL(up UploadResult, domain string) (string, error) {
	if domain != "" {
		return fmt.Sprintf("https://%s/%s", domain, up.StoreName), nil
	}
	for _, cand := range []string{up.PageURL, up.DirectURL, up.Path} {
		if cand != "" && isHTTPURL(cand) {
			return cand, nil
		}
	}
	return "", ErrNoShareableURL
}
