// Package extractor recovers the HLS manifest URL embedded in a YouTube
// watch page. The page is not a stable API: the manifest address lives in
// the hlsManifestUrl field of the inlined player response blob, and is only
// present while the channel is actually live. Extraction is best-effort by
// design; everything page-format-specific is isolated here.
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNotLive means the page carries no hlsManifestUrl field at all. This is
// the normal state for an offline channel, not a fault.
var ErrNotLive = errors.New("extractor: no hls manifest in page (channel not live)")

// ErrMalformed means the field is present but its value could not be decoded
// into a usable URL. Distinct from ErrNotLive so callers can log it as a
// real failure.
var ErrMalformed = errors.New("extractor: hls manifest field present but unparseable")

// Tolerates whitespace around the colon and both plain and escaped values.
var reManifest = regexp.MustCompile(`"hlsManifestUrl"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// ManifestURL extracts the live HLS manifest URL from raw watch-page HTML.
// Returns ErrNotLive when the field is absent and ErrMalformed when it is
// present but undecodable.
func ManifestURL(page string) (string, error) {
	m := reManifest.FindStringSubmatch(page)
	if m == nil {
		// The player blob is occasionally embedded in HTML-entity-escaped
		// form; retry against the entity-decoded document before concluding
		// the channel is offline.
		var err error
		if m, err = decodedMatch(page); err != nil {
			return "", err
		}
	}
	return decodeManifestValue(m[1])
}

// decodedMatch parses the page with goquery and re-applies the pattern to
// the entity-decoded text, which recovers blobs the raw pass misses.
func decodedMatch(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, ErrNotLive
	}
	if m := reManifest.FindStringSubmatch(doc.Text()); m != nil {
		return m, nil
	}
	return nil, ErrNotLive
}

// decodeManifestValue reverses the JSON string escaping (\/ and \uXXXX) and
// validates the result as an absolute http(s) URL.
func decodeManifestValue(raw string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrMalformed)
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: not an absolute http url: %q", ErrMalformed, s)
	}
	return s, nil
}
