package figma

// FileResponse represents the response from the Figma file API endpoint.
// It contains the file metadata and the root of the document tree.
type FileResponse struct {
	Name          string `json:"name"`
	LastModified  string `json:"lastModified"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	Version       string `json:"version"`
	Document      Node   `json:"document"`
	SchemaVersion int    `json:"schemaVersion"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Only the fields needed for frame and asset resolution are decoded; the
// rest of the (large) Figma node schema is ignored.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`
}

// ImagesResponse represents the response from the Figma image render API
// endpoint. Images maps node IDs to short-lived rasterization URLs; a node
// that could not be rendered maps to an empty string or is absent.
type ImagesResponse struct {
	Err    string            `json:"err,omitempty"`
	Images map[string]string `json:"images"`
}

// errorBody is the JSON shape Figma uses for 4xx/5xx responses.
type errorBody struct {
	Status  int    `json:"status"`
	Err     string `json:"err"`
	Message string `json:"message"`
}
