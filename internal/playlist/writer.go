// Package playlist renders run results into the two published artifacts: an
// extended-M3U playlist for players and a JSON status record for auditing.
// Both files are regenerated wholesale every run; manifest URLs are too
// short-lived for incremental patching to ever be correct.
package playlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tubelink/tubelink/internal/models"
)

// Output file names inside the output directory.
const (
	M3UFile    = "playlist.m3u"
	StatusFile = "status.json"
)

// StatusRecord is one entry of status.json.
type StatusRecord struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Group  string  `json:"group"`
	Logo   string  `json:"logo"`
	URL    *string `json:"url"`
	Status string  `json:"status"`
}

// BuildM3U renders the M3U playlist. Only live results appear; failed and
// unavailable channels are omitted entirely so players never see a dead or
// stale URL.
func BuildM3U(results []models.Result) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for i := range results {
		r := &results[i]
		if !r.Live() {
			continue
		}
		ch := r.Channel
		fmt.Fprintf(&b, "#EXTINF:-1 tvg-id=\"%s\" tvg-logo=\"%s\" group-title=\"%s\",%s\n", ch.ID, ch.Logo, ch.Group, ch.Name)
		b.WriteString(r.URL)
		b.WriteByte('\n')
	}
	return b.String()
}

// BuildStatus renders status.json: one record per configured channel, in
// input order, with a null url for anything not live.
func BuildStatus(results []models.Result) ([]byte, error) {
	records := make([]StatusRecord, 0, len(results))
	for i := range results {
		r := &results[i]
		rec := StatusRecord{
			ID:     r.Channel.ID,
			Name:   r.Channel.Name,
			Group:  r.Channel.Group,
			Logo:   r.Channel.Logo,
			Status: r.Status,
		}
		if r.Live() {
			u := r.URL
			rec.URL = &u
		}
		records = append(records, rec)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal status: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFiles writes both artifacts into dir, replacing any previous run's
// output. Each file is written to a temp file and renamed so consumers never
// observe a half-written playlist.
func WriteFiles(dir string, results []models.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	if err := writeAtomic(filepath.Join(dir, M3UFile), []byte(BuildM3U(results))); err != nil {
		return err
	}
	status, err := BuildStatus(results)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, StatusFile), status)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
