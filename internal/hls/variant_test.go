package hls

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const masterManifest = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1280000,RESOLUTION=640x360
low/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=5120000,RESOLUTION=1920x1080
https://cdn.example.com/high/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=2560000,RESOLUTION=1280x720
mid/index.m3u8
`

const mediaManifest = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:9.0,
seg0.ts
#EXTINF:9.0,
seg1.ts
`

func TestPickBestVariant(t *testing.T) {
	got, err := PickBestVariant(masterManifest, "https://manifest.googlevideo.com/live/master.m3u8")
	if err != nil {
		t.Fatalf("PickBestVariant: %v", err)
	}
	// Highest bandwidth wins; its URI is already absolute.
	want := "https://cdn.example.com/high/index.m3u8"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPickBestVariantRelative(t *testing.T) {
	master := `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1280000
low/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=2560000
mid/index.m3u8
`
	got, err := PickBestVariant(master, "https://manifest.googlevideo.com/live/master.m3u8")
	if err != nil {
		t.Fatalf("PickBestVariant: %v", err)
	}
	want := "https://manifest.googlevideo.com/live/mid/index.m3u8"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPickBestVariantMediaPlaylist(t *testing.T) {
	// A media playlist has no variants to choose from; the original URL is
	// already the right one.
	url := "https://manifest.googlevideo.com/live/media.m3u8"
	got, err := PickBestVariant(mediaManifest, url)
	if err != nil {
		t.Fatalf("PickBestVariant: %v", err)
	}
	if got != url {
		t.Errorf("got %q, want %q", got, url)
	}
}

func TestPickBestVariantGarbage(t *testing.T) {
	if _, err := PickBestVariant("not a manifest", "https://example.com/x.m3u8"); err == nil {
		t.Fatal("expected decode error for non-manifest content")
	}
}

func TestFetchMaster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(masterManifest))
	}))
	defer srv.Close()

	got, err := FetchMaster(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchMaster: %v", err)
	}
	if got != masterManifest {
		t.Errorf("body mismatch")
	}
}

func TestFetchMasterNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := FetchMaster(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error for HTTP 410")
	}
}
