// Package imager resolves rasterization URLs for the assets inside Figma
// frames. It flattens frame children into an asset list and merges the
// per-scale render API responses into a single record per asset.
package imager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/stamen/figmasset/pkg/figma"
)

// Asset holds the resolved image URLs for one named asset, one URL per
// requested scale that the render API returned.
type Asset struct {
	ID   string
	URLs map[float64]string
}

// AssetMap maps asset names to their resolved Asset records.
type AssetMap map[string]Asset

// MaxScale returns the numerically highest scale present for the asset and
// its URL. ok is false when the asset has no URLs at all.
func (a Asset) MaxScale() (scale float64, url string, ok bool) {
	for s, u := range a.URLs {
		if !ok || s > scale {
			scale, url, ok = s, u, true
		}
	}
	return scale, url, ok
}

// ScaleKey formats a scale as its record tag, e.g. "@1x", "@2x".
func ScaleKey(scale float64) string {
	return fmt.Sprintf("@%gx", scale)
}

// MarshalJSON emits the scale-tagged record shape, e.g.
// {"id":"1:2","@1x":"https://...","@2x":"https://..."} with scales in
// ascending numeric order.
func (a Asset) MarshalJSON() ([]byte, error) {
	scales := make([]float64, 0, len(a.URLs))
	for s := range a.URLs {
		scales = append(scales, s)
	}
	sort.Float64s(scales)

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"id":`)
	id, err := json.Marshal(a.ID)
	if err != nil {
		return nil, err
	}
	buf.Write(id)
	for _, s := range scales {
		key, err := json.Marshal(ScaleKey(s))
		if err != nil {
			return nil, err
		}
		u, err := json.Marshal(a.URLs[s])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(u)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CollectAssets flattens the immediate children of the given frames into a
// name -> node ID mapping. Frames are processed in order and only direct
// children are considered; on a name collision the later entry wins.
func CollectAssets(frames []*figma.Node) map[string]string {
	assets := make(map[string]string)
	for _, frame := range frames {
		if frame == nil {
			continue
		}
		for _, child := range frame.Children {
			assets[child.Name] = child.ID
		}
	}
	return assets
}

// Config holds the rasterization parameters for Resolve.
type Config struct {
	Scales []float64 // default [1]
	Format string    // "png", "svg", "jpg"; default "png"
}

// Resolve issues one batched render request per scale, all scales in
// flight concurrently, and merges the responses into an AssetMap. An asset
// missing from a scale's response simply lacks that scale in its record;
// any failed request fails the whole operation with no partial result.
func Resolve(ctx context.Context, client *figma.Client, fileKey string, assets map[string]string, cfg Config) (AssetMap, error) {
	scales := cfg.Scales
	if len(scales) == 0 {
		scales = []float64{1}
	}
	format := cfg.Format
	if format == "" {
		format = "png"
	}

	nodeIDs := make([]string, 0, len(assets))
	for _, id := range assets {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	// One response slot per scale; the merge below is indexed by scale
	// identity, so completion order does not matter.
	responses := make([]*figma.ImagesResponse, len(scales))

	g, gCtx := errgroup.WithContext(ctx)
	for i, scale := range scales {
		g.Go(func() error {
			resp, err := client.GetImages(gCtx, fileKey, nodeIDs, format, scale)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(AssetMap, len(assets))
	for name, id := range assets {
		asset := Asset{ID: id, URLs: make(map[float64]string, len(scales))}
		for i, scale := range scales {
			if url := responses[i].Images[id]; url != "" {
				asset.URLs[scale] = url
			}
		}
		result[name] = asset
	}

	return result, nil
}
