package mapstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ManifestName is the file name of a static snapshot's manifest, resolved
// relative to the snapshot's base path.
const ManifestName = "assets.json"

// StaticAsset is one entry of a static snapshot manifest: a single
// image/scale pair, unlike the multi-scale records of the remote path.
type StaticAsset struct {
	ID       string  `json:"id"`
	FileName string  `json:"fileName"`
	Scale    float64 `json:"scale"`
}

// LoadStatic reads the assets.json manifest below basePath and registers
// every listed image into the store under its manifest ID at its manifest
// scale, bypassing the Figma API entirely. basePath is normalized to end
// with a single slash. A nil client falls back to http.DefaultClient.
func LoadStatic(ctx context.Context, client *http.Client, store Store, basePath string) error {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(basePath, "/") + "/"

	manifest, err := fetchManifest(ctx, client, base+ManifestName)
	if err != nil {
		return err
	}

	for _, entry := range manifest {
		img, err := store.LoadImage(ctx, base+entry.FileName)
		if err != nil {
			return fmt.Errorf("load static image for %q: %w", entry.ID, err)
		}
		if err := store.AddImage(entry.ID, img, entry.Scale); err != nil {
			return fmt.Errorf("register static image %q: %w", entry.ID, err)
		}
	}

	return nil
}

func fetchManifest(ctx context.Context, client *http.Client, url string) ([]StaticAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching manifest %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}

	var manifest []StaticAsset
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", url, err)
	}

	return manifest, nil
}
