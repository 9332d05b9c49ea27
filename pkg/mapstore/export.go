package mapstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/stamen/figmasset/pkg/imager"
)

const maxParallelDownloads = 5

// ExportResult holds the outcome of a static snapshot export.
type ExportResult struct {
	Assets []StaticAsset
	Errors []error // non-fatal per-image download failures
}

// ExportStatic downloads every resolved scale of every asset into
// outputDir and writes an assets.json manifest next to the images, so the
// directory can later be served statically and loaded via LoadStatic.
// Manifest IDs are the asset names, keeping store registration keys
// identical between the remote and static paths. Individual download
// failures are collected in the result rather than aborting the export.
func ExportStatic(ctx context.Context, client *http.Client, assets imager.AssetMap, outputDir, format string) (*ExportResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", outputDir, err)
	}

	result := &ExportResult{}
	usedNames := make(map[string]int) // track filename collisions

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallelDownloads)
	var mu sync.Mutex

	for name, asset := range assets {
		for scale, url := range asset.URLs {
			fileName := buildFileName(name, asset.ID, format, scale)

			// Deduplicate filenames.
			mu.Lock()
			if count, exists := usedNames[fileName]; exists {
				ext := filepath.Ext(fileName)
				base := strings.TrimSuffix(fileName, ext)
				fileName = fmt.Sprintf("%s-%d%s", base, count+1, ext)
				usedNames[fileName] = count + 1
			} else {
				usedNames[fileName] = 1
			}
			mu.Unlock()

			wg.Add(1)
			go func(name, url, fileName string, scale float64) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				destPath := filepath.Join(outputDir, fileName)
				if err := downloadFile(ctx, client, url, destPath); err != nil {
					mu.Lock()
					result.Errors = append(result.Errors, fmt.Errorf("failed to download %s: %w", name, err))
					mu.Unlock()
					return
				}

				mu.Lock()
				result.Assets = append(result.Assets, StaticAsset{
					ID:       name,
					FileName: fileName,
					Scale:    scale,
				})
				mu.Unlock()
			}(name, url, fileName, scale)
		}
	}

	wg.Wait()

	sort.Slice(result.Assets, func(i, j int) bool {
		return result.Assets[i].FileName < result.Assets[j].FileName
	})

	manifest, err := json.MarshalIndent(result.Assets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, ManifestName), manifest, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return result, nil
}

// downloadFile performs an HTTP GET and saves the response body to destPath.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write file %q: %w", destPath, err)
	}

	return nil
}

// buildFileName creates a sanitized filename from an asset name.
// Uses kebab-case, adds @2x/@3x suffix for raster scales > 1,
// falls back to sanitized node ID if the name is empty.
func buildFileName(assetName, nodeID, format string, scale float64) string {
	name := assetName
	if name == "" {
		name = nodeID
	}

	name = toKebabCase(name)
	if name == "" {
		name = "asset"
	}

	// Add scale suffix for raster formats with scale > 1.
	scaleSuffix := ""
	if scale > 1 && format != "svg" && format != "pdf" {
		scaleSuffix = fmt.Sprintf("@%gx", scale)
	}

	return fmt.Sprintf("%s%s.%s", name, scaleSuffix, format)
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
