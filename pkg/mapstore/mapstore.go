// Package mapstore registers resolved Figma assets into a map renderer's
// image store. The Store interface mirrors the Mapbox-GL-style
// loadImage/addImage pair, recast as synchronous Go calls.
package mapstore

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/stamen/figmasset/pkg/imager"
)

// Store is the external image store assets are registered into. It is only
// ever written to; a registration failure is reported to the caller and not
// otherwise handled.
type Store interface {
	// LoadImage fetches and decodes the image at url.
	LoadImage(ctx context.Context, url string) (image.Image, error)
	// AddImage registers img under name at the given pixel-density ratio.
	AddImage(name string, img image.Image, pixelRatio float64) error
}

// HTTPImageLoader loads images over HTTP and decodes them. Store
// implementations can embed it to satisfy the LoadImage half of the
// interface. A nil Client falls back to http.DefaultClient.
type HTTPImageLoader struct {
	Client *http.Client
}

// LoadImage performs a GET for url and decodes the body as an image.
func (l *HTTPImageLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching image %s", resp.StatusCode, url)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", url, err)
	}

	return img, nil
}

// RegisterAssets loads each asset's image at its highest available scale
// and registers it into the store under the asset's name with that scale as
// its pixel-density ratio. Assets with no URL at any scale are skipped.
// Loads run concurrently; the first load or registration failure fails the
// call. There is no fallback to a lower scale.
func RegisterAssets(ctx context.Context, store Store, assets imager.AssetMap) error {
	g, gCtx := errgroup.WithContext(ctx)

	for name, asset := range assets {
		scale, url, ok := asset.MaxScale()
		if !ok {
			continue
		}

		g.Go(func() error {
			img, err := store.LoadImage(gCtx, url)
			if err != nil {
				return fmt.Errorf("load image for %q: %w", name, err)
			}
			if err := store.AddImage(name, img, scale); err != nil {
				return fmt.Errorf("register image %q: %w", name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
