package imager

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stamen/figmasset/pkg/figma"
)

func TestCollectAssets(t *testing.T) {
	tests := []struct {
		name   string
		frames []*figma.Node
		want   map[string]string
	}{
		{
			name: "single frame",
			frames: []*figma.Node{
				{
					ID: "1:1", Name: "icons", Type: "FRAME",
					Children: []figma.Node{
						{ID: "2:1", Name: "pin"},
						{ID: "2:2", Name: "arrow"},
					},
				},
			},
			want: map[string]string{"pin": "2:1", "arrow": "2:2"},
		},
		{
			name: "later frame wins on name collision",
			frames: []*figma.Node{
				{
					ID: "1:1", Name: "icons", Type: "FRAME",
					Children: []figma.Node{
						{ID: "2:1", Name: "icon"},
					},
				},
				{
					ID: "1:2", Name: "icons-dark", Type: "FRAME",
					Children: []figma.Node{
						{ID: "3:1", Name: "icon"},
					},
				},
			},
			want: map[string]string{"icon": "3:1"},
		},
		{
			name: "no recursion into grandchildren",
			frames: []*figma.Node{
				{
					ID: "1:1", Name: "icons", Type: "FRAME",
					Children: []figma.Node{
						{
							ID: "2:1", Name: "group",
							Children: []figma.Node{
								{ID: "3:1", Name: "nested"},
							},
						},
					},
				},
			},
			want: map[string]string{"group": "2:1"},
		},
		{
			name: "nil frames are skipped",
			frames: []*figma.Node{
				nil,
				{
					ID: "1:1", Name: "icons", Type: "FRAME",
					Children: []figma.Node{
						{ID: "2:1", Name: "pin"},
					},
				},
			},
			want: map[string]string{"pin": "2:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectAssets(tt.frames)
			if len(got) != len(tt.want) {
				t.Fatalf("CollectAssets() = %v, want %v", got, tt.want)
			}
			for name, id := range tt.want {
				if got[name] != id {
					t.Errorf("CollectAssets()[%q] = %q, want %q", name, got[name], id)
				}
			}
		})
	}
}

func TestResolveMergesScales(t *testing.T) {
	// Scale 1 renders both nodes; scale 2 is missing node "2".
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("scale") {
		case "1":
			w.Write([]byte(`{"images": {"1": "urlA1", "2": "urlB1"}}`))
		case "2":
			w.Write([]byte(`{"images": {"1": "urlA2"}}`))
		default:
			t.Errorf("unexpected scale %q", r.URL.Query().Get("scale"))
			w.Write([]byte(`{"images": {}}`))
		}
	}))
	defer srv.Close()

	client := figma.NewClient("tok", figma.WithBaseURL(srv.URL))
	assets := map[string]string{"a": "1", "b": "2"}

	got, err := Resolve(context.Background(), client, "KEY", assets, Config{Scales: []float64{1, 2}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	a := got["a"]
	if a.ID != "1" || a.URLs[1] != "urlA1" || a.URLs[2] != "urlA2" {
		t.Errorf("asset a = %+v, want id 1 with urlA1/urlA2", a)
	}

	b := got["b"]
	if b.ID != "2" || b.URLs[1] != "urlB1" {
		t.Errorf("asset b = %+v, want id 2 with urlB1", b)
	}
	if _, present := b.URLs[2]; present {
		t.Errorf("asset b has a scale-2 URL, want absent")
	}
}

func TestResolveFailsWhenAnyScaleFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("scale") == "2" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status": 429, "err": "Rate limited"}`))
			return
		}
		w.Write([]byte(`{"images": {"1": "urlA1"}}`))
	}))
	defer srv.Close()

	client := figma.NewClient("tok", figma.WithBaseURL(srv.URL))

	_, err := Resolve(context.Background(), client, "KEY", map[string]string{"a": "1"}, Config{Scales: []float64{1, 2}})
	if err == nil {
		t.Fatal("Resolve() error = nil, want failure when one scale request fails")
	}

	var apiErr *figma.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("error = %v, want *figma.APIError with status 429", err)
	}
}

func TestResolveDefaults(t *testing.T) {
	var gotScale, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotScale = r.URL.Query().Get("scale")
		gotFormat = r.URL.Query().Get("format")
		w.Write([]byte(`{"images": {"1": "url"}}`))
	}))
	defer srv.Close()

	client := figma.NewClient("tok", figma.WithBaseURL(srv.URL))

	got, err := Resolve(context.Background(), client, "KEY", map[string]string{"a": "1"}, Config{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if gotScale != "1" || gotFormat != "png" {
		t.Errorf("scale = %q, format = %q; want defaults 1 and png", gotScale, gotFormat)
	}
	if got["a"].URLs[1] != "url" {
		t.Errorf("asset a = %+v", got["a"])
	}
}

func TestAssetMaxScale(t *testing.T) {
	tests := []struct {
		name      string
		urls      map[float64]string
		wantScale float64
		wantURL   string
		wantOK    bool
	}{
		{
			name:      "picks highest present scale with a gap",
			urls:      map[float64]string{1: "u1", 3: "u3"},
			wantScale: 3,
			wantURL:   "u3",
			wantOK:    true,
		},
		{
			name:      "single scale",
			urls:      map[float64]string{2: "u2"},
			wantScale: 2,
			wantURL:   "u2",
			wantOK:    true,
		},
		{
			name:   "no urls",
			urls:   map[float64]string{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, url, ok := Asset{ID: "x", URLs: tt.urls}.MaxScale()
			if ok != tt.wantOK {
				t.Fatalf("MaxScale() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if scale != tt.wantScale || url != tt.wantURL {
				t.Errorf("MaxScale() = (%g, %q), want (%g, %q)", scale, url, tt.wantScale, tt.wantURL)
			}
		})
	}
}

func TestAssetMarshalJSON(t *testing.T) {
	asset := Asset{
		ID:   "1:2",
		URLs: map[float64]string{2: "url2", 1: "url1"},
	}

	got, err := asset.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	want := `{"id":"1:2","@1x":"url1","@2x":"url2"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestScaleKey(t *testing.T) {
	tests := []struct {
		scale float64
		want  string
	}{
		{1, "@1x"},
		{2, "@2x"},
		{1.5, "@1.5x"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ScaleKey(tt.scale); got != tt.want {
				t.Errorf("ScaleKey(%g) = %q, want %q", tt.scale, got, tt.want)
			}
		})
	}
}

func TestResolveBatchesAllIDs(t *testing.T) {
	var gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		w.Write([]byte(`{"images": {}}`))
	}))
	defer srv.Close()

	client := figma.NewClient("tok", figma.WithBaseURL(srv.URL))
	assets := map[string]string{"a": "1:1", "b": "2:2", "c": "3:3"}

	if _, err := Resolve(context.Background(), client, "KEY", assets, Config{}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := "1:1,2:2,3:3"
	if gotIDs != want {
		t.Errorf("ids = %q, want %q (all asset IDs in one batched request)", gotIDs, want)
	}
}
