package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stylekey/pkg/cache"
	"github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/observability"
	"github.com/matzehuels/stylekey/pkg/project"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// scenarioA is the red polygon with a dashed blue outline.
var scenarioA = symbology.Labels{
	Geometry:    "POLYGON",
	FillColor:   "#ff0000",
	FillStyle:   "SOLID",
	FillDensity: 0,
	StrokeColor: "#0000ff",
	StrokeStyle: "DASHED",
	StrokeLine:  2.0,
}

const tokenA = "1edV5UHMF2NcFhGXg"

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"sld", false},
		{"css", false},
		{"rest", false},
		{"png", false},
		{"pdf", false},
		{"svg", true},
		{"SLD", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" sld,PNG ,sld,,css")
	require.NoError(t, err)
	assert.Equal(t, []string{"sld", "png", "css"}, got)

	got, err = ParseFormats("all")
	require.NoError(t, err)
	assert.Equal(t, Formats, got)

	_, err = ParseFormats("sld,svg")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = ParseFormats(" , ")
	assert.Error(t, err)
}

func TestOptionsDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{"sld", Options{Format: "sld", StyleName: "x", Size: 300}, Options{Format: "sld", LayerName: project.DefaultLayerName}},
		{"rest", Options{Format: "rest", LayerName: "roads"}, Options{Format: "rest", StyleName: project.DefaultStyleName}},
		{"json", Options{Format: "JSON"}, Options{Format: "json", LayerName: project.DefaultLayerName, StyleName: project.DefaultStyleName}},
		{"png", Options{Format: "png"}, Options{Format: "png", Size: 200}},
		{"pdf sized", Options{Format: "pdf", Size: 64}, Options{Format: "pdf", Size: 64}},
		{"css", Options{Format: "css", LayerName: "x", StyleName: "y", Size: 9}, Options{Format: "css"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.in
			require.NoError(t, o.ValidateAndSetDefaults())
			assert.Equal(t, tt.want, o)
		})
	}
}

func TestOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Format: "svg"}, errors.ErrCodeInvalidFormat},
		{"size small", Options{Format: "png", Size: 10}, errors.ErrCodeInvalidRange},
		{"size large", Options{Format: "pdf", Size: 5000}, errors.ErrCodeInvalidRange},
		{"layer control", Options{Format: "sld", LayerName: "a\x00b"}, errors.ErrCodeInvalidInput},
		{"style name", Options{Format: "rest", StyleName: "../etc"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			err := o.ValidateAndSetDefaults()
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestCreate(t *testing.T) {
	r := quietRunner(cache.NewMemoryCache())
	created, err := r.Create(context.Background(), scenarioA)
	require.NoError(t, err)
	assert.Equal(t, tokenA, created.Token)
	assert.Equal(t, symbology.Polygon, created.Descriptor.Geometry())

	// Create seeds the descriptor cache.
	_, hit, err := r.Resolve(context.Background(), created.Token)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestCreateRejects(t *testing.T) {
	r := quietRunner(nil)
	bad := scenarioA
	bad.FillDensity = 11
	_, err := r.Create(context.Background(), bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRange), "got %v", err)

	bad = scenarioA
	bad.StrokeStyle = "WAVY"
	_, err = r.Create(context.Background(), bad)
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownEnum), "got %v", err)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(cache.NewMemoryCache())

	d, hit, err := r.Resolve(ctx, tokenA)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "#ff0000", d.FillColor().Hex())

	again, hit, err := r.Resolve(ctx, tokenA)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, d.Equal(again))
}

func TestResolveRejects(t *testing.T) {
	r := quietRunner(cache.NewMemoryCache())
	tests := []struct {
		token string
		code  errors.Code
	}{
		{"short", errors.ErrCodeInvalidLength},
		{"1edV5UHMF2NcFhGX!", errors.ErrCodeInvalidAlphabet},
		{"zzzzzzzzzzzzzzzzz", errors.ErrCodeInvalidRange},
		{"4z7MsSSwEdmnNmtv6", errors.ErrCodeUnknownCode},
	}
	for _, tt := range tests {
		_, _, err := r.Resolve(context.Background(), tt.token)
		assert.True(t, errors.Is(err, tt.code), "Resolve(%q) = %v, want %s", tt.token, err, tt.code)
		assert.True(t, errors.IsValidation(err))
	}
}

func TestArtifactFormats(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(nil)

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			art, err := r.Artifact(ctx, tokenA, Options{Format: format, Size: 60})
			require.NoError(t, err)
			assert.Equal(t, format, art.Format)
			assert.Equal(t, ContentType(format), art.ContentType)
			assert.NotEmpty(t, art.Data)
			assert.False(t, art.CacheHit)
		})
	}
}

func TestArtifactContents(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(nil)

	sld, err := r.Artifact(ctx, tokenA, Options{Format: FormatSLD, LayerName: "roads"})
	require.NoError(t, err)
	assert.Contains(t, string(sld.Data), "<sld:Name>roads</sld:Name>")

	css, err := r.Artifact(ctx, tokenA, Options{Format: FormatCSS})
	require.NoError(t, err)
	assert.Contains(t, string(css.Data), "fill: #ff0000;")

	rest, err := r.Artifact(ctx, tokenA, Options{Format: FormatREST, StyleName: "mine"})
	require.NoError(t, err)
	var payload project.UploadPayload
	require.NoError(t, json.Unmarshal(rest.Data, &payload))
	assert.Equal(t, "mine", payload.Style.Name)
	assert.Equal(t, "mine.sld", payload.Style.Filename)

	png, err := r.Artifact(ctx, tokenA, Options{Format: FormatPNG})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png.Data, []byte("\x89PNG")))
	assert.Equal(t, "style.png", png.Filename("style"))
}

func TestSummary(t *testing.T) {
	r := quietRunner(nil)
	art, err := r.Artifact(context.Background(), tokenA, Options{Format: FormatJSON})
	require.NoError(t, err)

	var got struct {
		URLKey     string         `json:"url_key"`
		Matplotlib map[string]any `json:"matplotlib"`
		GeoServer  struct {
			SLD         string         `json:"sld"`
			CSS         string         `json:"css"`
			RESTPayload map[string]any `json:"rest_payload"`
		} `json:"geoserver"`
		Symbology symbology.Labels `json:"symbology"`
	}
	require.NoError(t, json.Unmarshal(art.Data, &got))
	assert.Equal(t, tokenA, got.URLKey)
	assert.Equal(t, true, got.Matplotlib["fill"])
	assert.Equal(t, "#ff0000", got.Matplotlib["facecolor"])
	assert.Equal(t, "--", got.Matplotlib["linestyle"])
	assert.Contains(t, got.GeoServer.SLD, "<sld:StyledLayerDescriptor")
	assert.Contains(t, got.GeoServer.CSS, "stroke-dasharray")
	assert.Contains(t, got.GeoServer.RESTPayload, "style")
	assert.Equal(t, scenarioA, got.Symbology)
}

func TestArtifactCaching(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	r := quietRunner(mem)

	first, err := r.Artifact(ctx, tokenA, Options{Format: FormatSLD})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Artifact(ctx, tokenA, Options{Format: FormatSLD})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Data, second.Data)

	// Different options render separately.
	other, err := r.Artifact(ctx, tokenA, Options{Format: FormatSLD, LayerName: "x"})
	require.NoError(t, err)
	assert.False(t, other.CacheHit)

	refreshed, err := r.Artifact(ctx, tokenA, Options{Format: FormatSLD, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
	assert.Equal(t, first.Data, refreshed.Data)
}

func TestArtifactRejectsBeforeRendering(t *testing.T) {
	r := quietRunner(nil)
	_, err := r.Artifact(context.Background(), "bad", Options{Format: FormatPNG})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLength))

	_, err = r.Artifact(context.Background(), tokenA, Options{Format: "svg"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestArtifacts(t *testing.T) {
	r := quietRunner(cache.NewMemoryCache())
	arts, err := r.Artifacts(context.Background(), tokenA, []string{FormatCSS, FormatSLD, FormatPNG}, Options{Size: 50})
	require.NoError(t, err)
	require.Len(t, arts, 3)
	assert.Equal(t, FormatCSS, arts[0].Format)
	assert.Equal(t, FormatSLD, arts[1].Format)
	assert.Equal(t, FormatPNG, arts[2].Format)

	_, err = r.Artifacts(context.Background(), "0000000000000000!", Formats, Options{})
	assert.True(t, errors.IsValidation(err))
}

// failingCache errors on every call.
type failingCache struct{ cache.NullCache }

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cache.ErrNetwork
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrNetwork
}

func TestCacheFailuresAreIgnored(t *testing.T) {
	r := quietRunner(&failingCache{})
	art, err := r.Artifact(context.Background(), tokenA, Options{Format: FormatCSS})
	require.NoError(t, err)
	assert.NotEmpty(t, art.Data)
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu                 sync.Mutex
	hits, misses, sets int
	errs               int
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

func (h *countingHooks) OnCacheError(context.Context, string, error) {
	h.mu.Lock()
	h.errs++
	h.mu.Unlock()
}

func TestCacheHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := quietRunner(cache.NewMemoryCache())
	ctx := context.Background()
	_, err := r.Artifact(ctx, tokenA, Options{Format: FormatCSS})
	require.NoError(t, err)
	_, err = r.Artifact(ctx, tokenA, Options{Format: FormatCSS})
	require.NoError(t, err)

	// First call: descriptor miss+set, artifact miss+set.
	// Second call: descriptor hit, artifact hit.
	assert.Equal(t, 2, hooks.misses)
	assert.Equal(t, 2, hooks.sets)
	assert.Equal(t, 2, hooks.hits)
	assert.Zero(t, hooks.errs)
}

func TestLogsCreatedToken(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{}))
	_, err := r.Create(context.Background(), scenarioA)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), tokenA))
}
