package figmasset

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stamen/figmasset/pkg/figma"
	"github.com/stamen/figmasset/pkg/imager"
	"github.com/stamen/figmasset/pkg/mapstore"
)

// Options configures asset retrieval.
type Options struct {
	AccessToken string
	FileKey     string     // Figma file key; derived from FileURL if empty
	FileURL     string     // Figma file URL, alternative to FileKey
	FrameIDs    []string   // frame node IDs to pull assets from
	FrameNames  []string   // frame names, resolved to IDs against the document
	Scales      []float64  // rasterization scales, default [1]
	Format      string     // "png", "svg", "jpg"; default "png"
	HTTPClient  figma.Doer // nil = default Figma client transport
	Logger      Logger     // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

// NoFramesError is returned when none of the requested frame IDs or names
// match a node in the fetched document.
type NoFramesError struct {
	FrameIDs   []string
	FrameNames []string
}

func (e *NoFramesError) Error() string {
	return fmt.Sprintf("no matching frames in document (ids: %s, names: %s)",
		strings.Join(e.FrameIDs, ", "), strings.Join(e.FrameNames, ", "))
}

// Load fetches the Figma document, resolves the requested frames, and
// returns the per-asset, per-scale image URL records for the frames'
// immediate children. This is the remote retrieval entry point.
func Load(ctx context.Context, opts Options) (imager.AssetMap, error) {
	fileKey := opts.FileKey
	if fileKey == "" {
		key, err := figma.ExtractFileKey(opts.FileURL)
		if err != nil {
			return nil, fmt.Errorf("extract file key: %w", err)
		}
		fileKey = key
	}

	var clientOpts []figma.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, figma.WithHTTPClient(opts.HTTPClient))
	}
	client := figma.NewClient(opts.AccessToken, clientOpts...)

	opts.logInfo("Fetching file %s...", fileKey)
	fileResp, err := client.GetFile(ctx, fileKey)
	if err != nil {
		return nil, err
	}
	opts.logInfo("File: %s", fileResp.Name)

	frameIDs := append([]string(nil), opts.FrameIDs...)
	for _, name := range opts.FrameNames {
		if id := figma.FindFrameIDByName(&fileResp.Document, name); id != "" {
			frameIDs = append(frameIDs, id)
		}
	}

	var frames []*figma.Node
	for _, node := range figma.FindNodesByID(&fileResp.Document, frameIDs) {
		if node != nil {
			frames = append(frames, node)
		}
	}
	if len(frames) == 0 {
		return nil, &NoFramesError{FrameIDs: opts.FrameIDs, FrameNames: opts.FrameNames}
	}
	opts.logInfo("Resolved %d frame(s)", len(frames))

	assets := imager.CollectAssets(frames)
	opts.logInfo("Collected %d asset(s)", len(assets))

	return imager.Resolve(ctx, client, fileKey, assets, imager.Config{
		Scales: opts.Scales,
		Format: opts.Format,
	})
}

// LoadToStore retrieves assets per Load and registers each one into the
// store at its highest available scale. When Scales is unset it defaults to
// [2], on the premise that rendering contexts benefit from high-density
// rasterizations. The resolved records are returned alongside registration.
func LoadToStore(ctx context.Context, store mapstore.Store, opts Options) (imager.AssetMap, error) {
	if len(opts.Scales) == 0 {
		opts.Scales = []float64{2}
	}

	assets, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := mapstore.RegisterAssets(ctx, store, assets); err != nil {
		return nil, err
	}

	return assets, nil
}

// ParseScales parses a comma-separated string of scale factors into a
// float64 slice. An empty input yields the default scale of 1.
func ParseScales(scalesStr string) ([]float64, error) {
	parts := strings.Split(scalesStr, ",")
	scales := make([]float64, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		s, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid scale value %q: %w", trimmed, err)
		}
		if s <= 0 {
			return nil, fmt.Errorf("scale value must be positive, got %g", s)
		}

		scales = append(scales, s)
	}

	if len(scales) == 0 {
		return []float64{1}, nil
	}

	return scales, nil
}

// ParseList parses a comma-separated string into a slice, trimming
// whitespace and dropping empty entries.
func ParseList(str string) []string {
	parts := strings.Split(str, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
