// Package figmasset fetches design assets from Figma files and resolves
// multi-scale rasterization URLs for them, optionally registering the
// images into a map renderer's image store (a Mapbox-GL-style
// loadImage/addImage pair).
//
// The CLI lives in cmd/figmasset; this root package exposes the same
// pipeline as a Go API so that callers can embed asset loading in their
// own tools without shelling out.
//
// # Quick start
//
//	assets, err := figmasset.Load(ctx, figmasset.Options{
//	    AccessToken: os.Getenv("FIGMA_TOKEN"),
//	    FileURL:     "https://www.figma.com/design/ABC123/My-Design",
//	    FrameNames:  []string{"icons", "patterns"},
//	    Scales:      []float64{1, 2},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for name, asset := range assets {
//	    fmt.Println(name, asset.URLs[2])
//	}
//
// Frames are resolved by node ID ([Options.FrameIDs]) or by name
// ([Options.FrameNames]); a frame's immediate children are the assets of
// interest, keyed by their node names. When two frames contain a child
// with the same name, the later frame wins.
//
// # Registering into an image store
//
// Pass a [mapstore.Store] to [LoadToStore] to load each asset's image at
// its highest resolved scale and register it under the asset's name with
// that scale as its pixel-density ratio. Without an explicit scale list
// LoadToStore requests scale 2.
//
// # Static snapshots
//
// A previously exported asset set served as static files (an assets.json
// manifest next to the image files, as written by `figmasset export`) can
// be registered without touching the Figma API at all via
// [mapstore.LoadStatic].
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package figmasset
