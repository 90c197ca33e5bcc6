package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	"github.com/matzehuels/jeweler/pkg/catalog"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/observability"
	"github.com/matzehuels/jeweler/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(nil, nil, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, contentTypeJSON, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestEnumerate(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "/v1/enumerate", `{"counts":[2,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeJSON, resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	doc, err := pkgio.ReadJSON(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.N)
	assert.Equal(t, bracelet.Bracelet, doc.Mode)
	assert.Equal(t, [][]int{{0, 1, 0, 1}, {0, 0, 1, 1}}, doc.Results)
}

func TestEnumerateModesAndLimit(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "/v1/enumerate", `{"counts":[3,2,1],"mode":"necklace","limit":4,"workers":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := pkgio.ReadJSON(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, bracelet.Necklace, doc.Mode)
	assert.Equal(t, 4, doc.Count)
}

func TestEnumerateTooManyResults(t *testing.T) {
	ts := newTestServer(t, Config{MaxResults: 5})

	// [3,2,1] has 10 necklaces.
	resp := post(t, ts, "/v1/enumerate", `{"counts":[3,2,1],"mode":"necklace"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "LIMIT_EXCEEDED", e.Code)
	assert.Contains(t, e.Message, "/v1/enumerate/stream")

	// Exactly at the cap is fine.
	resp = post(t, ts, "/v1/enumerate", `{"counts":[3,2,1],"mode":"necklace","limit":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The bracelet count (6) exceeds 5 even though a limit above the cap was asked for.
	resp = post(t, ts, "/v1/enumerate", `{"counts":[3,2,1],"limit":50}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestEnumerateExactlyMaxResults(t *testing.T) {
	ts := newTestServer(t, Config{MaxResults: 6})

	// [3,2,1] has exactly 6 bracelets.
	resp := post(t, ts, "/v1/enumerate", `{"counts":[3,2,1]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := pkgio.ReadJSON(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Count)
}

func TestEnumerateRejects(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty body", ``, "INVALID_INPUT"},
		{"malformed", `{"counts":`, "INVALID_INPUT"},
		{"unknown field", `{"counts":[1,1],"colour":3}`, "INVALID_INPUT"},
		{"missing counts", `{}`, "INVALID_INPUT"},
		{"zero count", `{"counts":[0,1]}`, "INVALID_INPUT"},
		{"negative limit", `{"counts":[1,1],"limit":-1}`, "INVALID_INPUT"},
		{"bad mode", `{"counts":[1,1],"mode":"anklet"}`, "INVALID_MODE"},
		{"too long", `{"counts":[33,32]}`, "CAPACITY_EXCEEDED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/enumerate", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
			assert.Equal(t, resp.Header.Get(requestIDHeader), e.RequestID)
		})
	}
}

func TestStream(t *testing.T) {
	ts := newTestServer(t, Config{MaxResults: 1})

	resp := post(t, ts, "/v1/enumerate/stream", `{"counts":[3,2,1],"mode":"lyndon"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeNDJSON, resp.Header.Get("Content-Type"))

	var lines int
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		var word []int
		require.NoError(t, json.Unmarshal(sc.Bytes(), &word))
		assert.Len(t, word, 6)
		lines++
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, 10, lines, "streaming ignores MaxResults")
}

// cancellingRecorder cancels the request once the first body chunk arrives,
// as a client hanging up mid-stream would.
type cancellingRecorder struct {
	*httptest.ResponseRecorder
	cancel context.CancelFunc
}

func (r *cancellingRecorder) Write(p []byte) (int, error) {
	r.cancel()
	return r.ResponseRecorder.Write(p)
}

func TestStreamCancelledEndsOnWholeLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/enumerate/stream",
		strings.NewReader(`{"counts":[6,6,6]}`)).WithContext(ctx)
	req.Header.Set("Content-Type", contentTypeJSON)
	rec := &cancellingRecorder{ResponseRecorder: httptest.NewRecorder(), cancel: cancel}

	New(nil, nil, Config{}).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rec.Flushed)
	body := rec.Body.String()
	require.NotEmpty(t, body)
	assert.True(t, strings.HasSuffix(body, "\n"), "stream ends mid-word")

	total, err := bracelet.Count(context.Background(), bracelet.NewSpec(6, 6, 6), bracelet.Bracelet)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	assert.Less(t, len(lines), total)
	for _, line := range lines {
		var word []int
		require.NoError(t, json.Unmarshal([]byte(line), &word), line)
	}
}

func TestFlushWriterFlushesEachWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	fw := newFlushWriter(rec)
	n, err := fw.Write([]byte("[0,1]\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, rec.Flushed)
	assert.Equal(t, "[0,1]\n", rec.Body.String())
}

func TestStreamRejectsBeforeWriting(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "/v1/enumerate/stream", `{"counts":[2,-1]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, contentTypeJSON, resp.Header.Get("Content-Type"))
}

func TestCount(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		mode string
		want int
	}{
		{"bracelet", 6},
		{"necklace", 10},
		{"lyndon", 10},
		{"lyndon-bracelet", 6},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			resp := post(t, ts, "/v1/count", `{"counts":[3,2,1],"mode":"`+tt.mode+`"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var got CountResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got.Count)
			assert.Equal(t, 6, got.N)
			assert.Equal(t, 3, got.K)
		})
	}
}

func TestModes(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v1/modes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got ModesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Modes, len(bracelet.Modes()))
	for _, m := range got.Modes {
		assert.Equal(t, m.Name.Reflect(), m.Reflect)
		assert.Equal(t, m.Name.Aperiodic(), m.Aperiodic)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
	var got HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ok", got.Status)
	assert.NotEmpty(t, got.Build.GoVersion)
}

func TestMetrics(t *testing.T) {
	t.Cleanup(observability.Reset)

	reg := prometheus.NewRegistry()
	NewMetrics(reg).Register()
	ts := newTestServer(t, Config{Gatherer: reg})

	post(t, ts, "/v1/count", `{"counts":[2,2]}`)
	post(t, ts, "/v1/count", `{"counts":[0]}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body strings.Builder
	_, err = bufio.NewReader(resp.Body).WriteTo(&body)
	require.NoError(t, err)
	text := body.String()

	assert.Contains(t, text, `jeweler_enumerations_total{mode="bracelet",status="ok"} 1`)
	assert.Contains(t, text, `jeweler_http_requests_total{method="POST",route="/v1/count",status="200"} 1`)
	assert.Contains(t, text, `jeweler_http_requests_total{method="POST",route="/v1/count",status="400"} 1`)
	assert.Contains(t, text, `jeweler_http_errors_total{method="POST",route="/v1/count"} 1`)
}

func TestCatalogRoutes(t *testing.T) {
	store, err := catalog.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = store.Put(ctx, catalog.Record{Length: 4, Weight: 2, Objective: "minimal_variance", Code: []int{1, 1, 0, 0}, Score: 0.5})
	require.NoError(t, err)

	ts := httptest.NewServer(New(pipeline.NewRunner(store, nil), nil, Config{}).Handler())
	t.Cleanup(ts.Close)

	get := func(path string) *http.Response {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := get("/v1/catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list CatalogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Records, 1)
	assert.Equal(t, []int{1, 1, 0, 0}, list.Records[0].Code)

	resp = get("/v1/catalog?length=7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list.Records)

	resp = get("/v1/catalog/4/2/minimal-variance")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec catalog.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, 0.5, rec.Score)

	resp = get("/v1/catalog/4/2/spectral_flatness")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)

	resp = get("/v1/catalog/4/9/minimal_variance")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get("/v1/catalog?length=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := bracelet.Count(ctx, bracelet.NewSpec(4, 4), bracelet.Bracelet)
	require.Error(t, err)

	status, code := statusFor(err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "CANCELLED", string(code))

	status, code = statusFor(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", string(code))
}
