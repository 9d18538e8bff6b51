package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stylekey/pkg/cache"
	"github.com/matzehuels/stylekey/pkg/pipeline"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

const tokenA = "1edV5UHMF2NcFhGXg"

const bodyA = `{
  "symbology_geometry_type": "POLYGON",
  "symbology_fill_color": "#ff0000",
  "symbology_fill_style": "SOLID",
  "symbology_fill_density": 0,
  "symbology_stroke_color": "#0000ff",
  "symbology_stroke_style": "DASHED",
  "symbology_stroke_line": 2.0
}`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	ts := httptest.NewServer(New(runner, logger, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var h HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, "ok", h.Status)
	assert.NotEmpty(t, h.Version)

	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "response should carry a generated request id")
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var root RootResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, ServiceName, root.Name)
	assert.Equal(t, pipeline.Formats, root.Formats)
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t, Config{})
	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestCreate(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Post(ts.URL+"/api/symbology", "application/json", strings.NewReader(bodyA))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, tokenA, got.URLKey)
	assert.Equal(t, "/api/result/"+tokenA+"/json", got.MatplotlibURL)
	assert.Equal(t, "/api/result/"+tokenA+"/png", got.PreviewURL)
	assert.Equal(t, "POLYGON", got.Symbology.Geometry)
	assert.Equal(t, "#0000ff", got.Symbology.StrokeColor)
}

func TestCreateNormalizesNotation(t *testing.T) {
	ts := newTestServer(t, Config{})
	body := strings.NewReplacer(`"#ff0000"`, `"red"`, `"#0000ff"`, `"rgb(0, 0, 255)"`).Replace(bodyA)
	resp, err := http.Post(ts.URL+"/api/symbology", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var got CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, tokenA, got.URLKey)
}

func TestCreateRejects(t *testing.T) {
	ts := newTestServer(t, Config{})
	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `{`, "INVALID_INPUT"},
		{"missing field", `{"symbology_geometry_type": "POLYGON"}`, "INVALID_INPUT"},
		{"wrong type", strings.Replace(bodyA, `"symbology_fill_density": 0`, `"symbology_fill_density": "zero"`, 1), "INVALID_INPUT"},
		{"density range", strings.Replace(bodyA, `"symbology_fill_density": 0`, `"symbology_fill_density": 11`, 1), "INVALID_RANGE"},
		{"width range", strings.Replace(bodyA, `2.0`, `50.5`, 1), "INVALID_RANGE"},
		{"unknown geometry", strings.Replace(bodyA, `"POLYGON"`, `"CIRCLE"`, 1), "UNKNOWN_ENUM"},
		{"bad color", strings.Replace(bodyA, `"#ff0000"`, `"not-a-color"`, 1), "INVALID_COLOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/symbology", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, http.StatusBadRequest, e.StatusCode)
			assert.NotEmpty(t, e.Detail)
		})
	}
}

func TestCreateBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 16})
	resp, err := http.Post(ts.URL+"/api/symbology", "application/json", strings.NewReader(bodyA))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCreateBodyReadFailure(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/symbology", iotest.ErrReader(stderrors.New("connection reset")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultJSON(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/api/result/" + tokenA + "/json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var got pipeline.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, tokenA, got.URLKey)
	assert.Equal(t, "#ff0000", got.Matplotlib.FaceColor)
	assert.Contains(t, got.GeoServer.SLD, "<sld:Name>layer</sld:Name>")
	assert.Equal(t, "generated_style", got.GeoServer.RESTPayload.Style.Name)
	assert.Equal(t, symbology.Labels{
		Geometry:    "POLYGON",
		FillColor:   "#ff0000",
		FillStyle:   "SOLID",
		StrokeColor: "#0000ff",
		StrokeStyle: "DASHED",
		StrokeLine:  2.0,
	}, got.Symbology)
}

func TestResultFormats(t *testing.T) {
	ts := newTestServer(t, Config{})
	tests := []struct {
		format      string
		query       string
		contentType string
		contains    string
		cached      bool
	}{
		{"sld", "?layer_name=roads", "application/xml", "<sld:Name>roads</sld:Name>", false},
		{"css", "", "text/css; charset=utf-8", "stroke-dasharray: 5 5;", false},
		{"rest", "?style_name=mine", "application/json", `"filename": "mine.sld"`, false},
		{"png", "?size=64", "image/png", "\x89PNG", true},
		{"pdf", "", "application/pdf", "%PDF-", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/result/" + tokenA + "/" + tt.format + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.True(t, bytes.Contains(body, []byte(tt.contains)), "body missing %q", tt.contains)
			if tt.cached {
				assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))
			} else {
				assert.Empty(t, resp.Header.Get("Cache-Control"))
			}
		})
	}
}

func TestResultInvalidToken(t *testing.T) {
	ts := newTestServer(t, Config{})
	for _, token := range []string{"short", "1edV5UHMF2NcFhGX-", "zzzzzzzzzzzzzzzzz", "4z7MsSSwEdmnNmtv6"} {
		resp, err := http.Get(ts.URL + "/api/result/" + token + "/png")
		require.NoError(t, err)
		e := decodeError(t, resp)
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, token)
		assert.True(t, strings.HasPrefix(e.Detail, "Invalid url_key format: "), e.Detail)
	}
}

func TestResultBadOptions(t *testing.T) {
	ts := newTestServer(t, Config{})
	tests := []struct {
		path   string
		status int
	}{
		{"/png?size=10", http.StatusBadRequest},
		{"/png?size=1001", http.StatusBadRequest},
		{"/png?size=big", http.StatusBadRequest},
		{"/rest?style_name=../x", http.StatusBadRequest},
		{"/svg", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(ts.URL + "/api/result/" + tokenA + tt.path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	e := decodeError(t, resp)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)

	resp, err = http.Get(ts.URL + "/api/symbology")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Config{})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/symbology", nil)
	req.Header.Set("Origin", "https://maps.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORSAllowAllWithoutCredentials(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}} {
		ts := newTestServer(t, Config{CORSOrigins: origins})

		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), origins)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"), origins)
	}
}

func TestCORSRestricted(t *testing.T) {
	ts := newTestServer(t, Config{CORSOrigins: []string{"https://ok.example"}})

	tests := []struct {
		origin, allowOrigin, allowCredentials string
	}{
		{"https://ok.example", "https://ok.example", "true"},
		{"https://bad.example", "", ""},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
		req.Header.Set("Origin", tt.origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.allowOrigin, resp.Header.Get("Access-Control-Allow-Origin"), tt.origin)
		assert.Equal(t, tt.allowCredentials, resp.Header.Get("Access-Control-Allow-Credentials"), tt.origin)
	}
}

func TestRecoverer(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), logger, Config{})
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "Internal server error", e.Detail)
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode)
}
