package discovery

import (
	"log/slog"
	"net/url"
	"strings"
)

// openaiSubPath is the wire-format suffix every discovered base URL must
// carry: the platform proxies discovered models behind an
// OpenAI-compatible endpoint under /openai.
const openaiSubPath = "/openai"

// NormalizeBaseURL turns a locator-provided base URL template into the
// OpenAI-compatible endpoint for the discovered model.
//
// The locator may hand out URLs with the model identifier embedded as the
// final path segment (e.g. https://proxy.example.com/OpenAI-GPT5-2-81a4d41);
// that segment is stripped. Then /openai is appended unless the URL
// already contains it. A URL that cannot be parsed is used as-is for the
// strip step.
func NormalizeBaseURL(baseURL string) string {
	stripped := stripModelSegment(baseURL)

	if !strings.Contains(stripped, openaiSubPath) {
		if !strings.HasSuffix(stripped, "/") {
			stripped += "/"
		}
		stripped += "openai"
	}
	return stripped
}

// stripModelSegment removes a trailing path segment that looks like a
// model identifier, preserving scheme, authority, and any leading path
// segments. On parse failure the original URL is returned unchanged.
func stripModelSegment(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		slog.Warn("failed to parse discovered base URL", "url", baseURL, "error", err)
		return baseURL
	}
	path := u.Path
	if path == "" || path == "/" {
		return baseURL
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if !looksLikeModelName(last) {
		return baseURL
	}

	var rebuilt strings.Builder
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			continue
		}
		rebuilt.WriteByte('/')
		rebuilt.WriteString(seg)
	}
	if rebuilt.Len() == 0 {
		rebuilt.WriteByte('/')
	}
	return u.Scheme + "://" + u.Host + rebuilt.String()
}

// looksLikeModelName reports whether a path segment is plausibly an
// embedded model identifier. A hyphen is the telltale: platform model
// identifiers are always hyphenated, plain route segments never are.
func looksLikeModelName(segment string) bool {
	return strings.Contains(segment, "-")
}
