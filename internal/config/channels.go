package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tubelink/tubelink/internal/models"
)

type channelsFile struct {
	Channels []models.Channel `yaml:"channels"`
}

// LoadChannels reads the channel list from a YAML or JSON file (by
// extension). YAML accepts either a top-level `channels:` key or a bare
// list; JSON is a bare array of channel objects. Channel ids must be
// unique and every channel needs an id, a name, and a url.
func LoadChannels(path string) ([]models.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}

	var channels []models.Channel
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &channels); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		var f channelsFile
		mapErr := yaml.Unmarshal(data, &f)
		channels = f.Channels
		if len(channels) == 0 {
			// Bare top-level list form.
			listErr := yaml.Unmarshal(data, &channels)
			if mapErr != nil && listErr != nil {
				return nil, fmt.Errorf("parse %s: %w", path, listErr)
			}
		}
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}

	seen := make(map[string]bool, len(channels))
	for i := range channels {
		ch := &channels[i]
		if ch.ID == "" || ch.Name == "" || ch.URL == "" {
			return nil, fmt.Errorf("channel %d: id, name, and url are required", i)
		}
		if seen[ch.ID] {
			return nil, fmt.Errorf("duplicate channel id %q", ch.ID)
		}
		seen[ch.ID] = true
		ch.URL = NormalizeWatchURL(ch.URL)
	}
	return channels, nil
}

// NormalizeWatchURL appends /live to channel-page URLs (/channel/, /c/, /@)
// so the fetch lands on the channel's current live stream instead of the
// channel home page. Plain watch URLs are returned unchanged.
func NormalizeWatchURL(url string) string {
	if strings.Contains(url, "/channel/") || strings.Contains(url, "/c/") || strings.Contains(url, "/@") {
		if !strings.HasSuffix(url, "/live") {
			return strings.TrimRight(url, "/") + "/live"
		}
	}
	return url
}
