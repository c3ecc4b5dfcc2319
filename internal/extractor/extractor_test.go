package extractor

import (
	"errors"
	"strings"
	"testing"
)

func TestManifestURL_EscapedSlashes(t *testing.T) {
	page := `<html><script>var ytInitialPlayerResponse = {"streamingData":{"hlsManifestUrl":"https:\/\/manifest.googlevideo.com\/live\/abc"}};</script></html>`
	got, err := ManifestURL(page)
	if err != nil {
		t.Fatalf("ManifestURL: %v", err)
	}
	want := "https://manifest.googlevideo.com/live/abc"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestManifestURL_Variations(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "plain url",
			page: `{"hlsManifestUrl":"https://manifest.googlevideo.com/api/manifest/hls_variant/x/file/index.m3u8"}`,
			want: "https://manifest.googlevideo.com/api/manifest/hls_variant/x/file/index.m3u8",
		},
		{
			name: "whitespace around colon",
			page: `{"hlsManifestUrl" : "https://manifest.googlevideo.com/live/abc"}`,
			want: "https://manifest.googlevideo.com/live/abc",
		},
		{
			name: "unicode escaped ampersand",
			page: `{"hlsManifestUrl":"https:\/\/manifest.googlevideo.com\/live\/abc?a=1&b=2"}`,
			want: "https://manifest.googlevideo.com/live/abc?a=1&b=2",
		},
		{
			name: "entity escaped blob",
			page: `<html><body><div>&quot;hlsManifestUrl&quot;:&quot;https://manifest.googlevideo.com/live/abc&quot;</div></body></html>`,
			want: "https://manifest.googlevideo.com/live/abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ManifestURL(tt.page)
			if err != nil {
				t.Fatalf("ManifestURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManifestURL_NotLive(t *testing.T) {
	pages := []string{
		"",
		"<html><body>offline channel page</body></html>",
		`{"streamingData":{"dashManifestUrl":"https://example.com/dash"}}`,
	}
	for _, page := range pages {
		_, err := ManifestURL(page)
		if !errors.Is(err, ErrNotLive) {
			t.Errorf("page %q: got %v, want ErrNotLive", truncate(page), err)
		}
	}
}

func TestManifestURL_Malformed(t *testing.T) {
	pages := []string{
		`{"hlsManifestUrl":""}`,
		`{"hlsManifestUrl":"   "}`,
		`{"hlsManifestUrl":"not-a-url"}`,
		`{"hlsManifestUrl":"relative\/path\/index.m3u8"}`,
		`{"hlsManifestUrl":"https:\x2f\x2fbad-escape"}`,
	}
	for _, page := range pages {
		_, err := ManifestURL(page)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("page %q: got %v, want ErrMalformed", truncate(page), err)
		}
		if errors.Is(err, ErrNotLive) {
			t.Errorf("page %q: malformed must not be reported as not-live", truncate(page))
		}
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return strings.TrimSpace(s)
}
