package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadChannelsYAML(t *testing.T) {
	path := writeFile(t, "channels.yaml", `channels:
  - id: lofi
    name: Lofi Girl
    url: https://www.youtube.com/watch?v=jfKfPfyJRdk
    logo: https://example.com/lofi.png
    group: Music
  - id: news
    name: News 24
    url: https://www.youtube.com/@news24/live
`)
	channels, err := LoadChannels(path)
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(channels))
	}
	if channels[0].ID != "lofi" || channels[0].Group != "Music" {
		t.Errorf("channel 0 = %+v", channels[0])
	}
	if channels[1].URL != "https://www.youtube.com/@news24/live" {
		t.Errorf("channel 1 url = %q", channels[1].URL)
	}
}

func TestLoadChannelsBareListYAML(t *testing.T) {
	path := writeFile(t, "channels.yaml", `- id: lofi
  name: Lofi Girl
  url: https://www.youtube.com/watch?v=jfKfPfyJRdk
`)
	channels, err := LoadChannels(path)
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != "lofi" {
		t.Errorf("channels = %+v", channels)
	}
}

func TestLoadChannelsJSON(t *testing.T) {
	path := writeFile(t, "channels.json", `[
  {"id": "lofi", "name": "Lofi Girl", "url": "https://www.youtube.com/watch?v=jfKfPfyJRdk", "group": "Music"}
]`)
	channels, err := LoadChannels(path)
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(channels) != 1 || channels[0].Name != "Lofi Girl" {
		t.Errorf("channels = %+v", channels)
	}
}

func TestLoadChannelsDuplicateID(t *testing.T) {
	path := writeFile(t, "channels.yaml", `channels:
  - {id: a, name: A, url: "https://youtube.com/watch?v=1"}
  - {id: a, name: A again, url: "https://youtube.com/watch?v=2"}
`)
	if _, err := LoadChannels(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadChannelsMissingFields(t *testing.T) {
	path := writeFile(t, "channels.yaml", `channels:
  - {id: a, name: A}
`)
	if _, err := LoadChannels(path); err == nil {
		t.Fatal("expected missing url error")
	}
}

func TestLoadChannelsEmpty(t *testing.T) {
	path := writeFile(t, "channels.yaml", "channels: []\n")
	if _, err := LoadChannels(path); !errors.Is(err, ErrNoChannels) {
		t.Fatalf("got %v, want ErrNoChannels", err)
	}
}

func TestNormalizeWatchURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc"},
		{"https://www.youtube.com/@lofigirl", "https://www.youtube.com/@lofigirl/live"},
		{"https://www.youtube.com/@lofigirl/", "https://www.youtube.com/@lofigirl/live"},
		{"https://www.youtube.com/@lofigirl/live", "https://www.youtube.com/@lofigirl/live"},
		{"https://www.youtube.com/channel/UCabc", "https://www.youtube.com/channel/UCabc/live"},
		{"https://www.youtube.com/c/lofigirl", "https://www.youtube.com/c/lofigirl/live"},
	}
	for _, tt := range tests {
		if got := NormalizeWatchURL(tt.in); got != tt.want {
			t.Errorf("NormalizeWatchURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
