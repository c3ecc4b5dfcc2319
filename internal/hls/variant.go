// Package hls inspects a live stream's master manifest and selects the
// highest-bandwidth variant, so playlist entries can point players directly
// at the best rendition instead of the master playlist.
package hls

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/grafov/m3u8"
)

// FetchMaster downloads the manifest body at manifestURL using client.
func FetchMaster(ctx context.Context, client *http.Client, manifestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return "", fmt.Errorf("NewRequest: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ReadAll: %w", err)
	}
	return string(body), nil
}

// PickBestVariant parses master manifest content and returns the URL of the
// highest-bandwidth variant, resolving relative URIs against manifestURL.
// If the content is already a media playlist, manifestURL itself is returned.
func PickBestVariant(master, manifestURL string) (string, error) {
	playlist, listType, err := m3u8.DecodeFrom(strings.NewReader(master), false)
	if err != nil {
		return "", fmt.Errorf("decode manifest: %w", err)
	}
	if listType != m3u8.MASTER {
		return manifestURL, nil
	}

	mp, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok || len(mp.Variants) == 0 {
		return manifestURL, nil
	}

	best := mp.Variants[0]
	for _, v := range mp.Variants[1:] {
		if v != nil && v.Bandwidth > best.Bandwidth {
			best = v
		}
	}
	return resolveURI(manifestURL, best.URI)
}

func resolveURI(base, ref string) (string, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse variant uri: %w", err)
	}
	if refURL.IsAbs() {
		return ref, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse manifest url: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
