package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arcraiders-data/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T, upstream http.HandlerFunc, ttl time.Duration) (*httptest.Server, *httptest.Server) {
	cleanup := telemetry.SetupForTesting(t, "services/proxy")
	t.Cleanup(cleanup)

	api := httptest.NewServer(upstream)
	t.Cleanup(api.Close)

	service := NewService(Options{BaseUrl: api.URL, Ttl: ttl})
	front := httptest.NewServer(service.Handler())
	t.Cleanup(front.Close)

	return api, front
}

func get(t *testing.T, url string) (*http.Response, string) {
	res, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	return res, string(body)
}

func TestCacheHit(t *testing.T) {
	upstreamCalls := 0
	_, front := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		require.Equal(t, "/items", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"viper-i"}]`))
	}, time.Minute)

	res, body := get(t, front.URL+"/api/items?page=1")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "MISS", res.Header.Get("X-Cache"))
	require.Equal(t, `[{"id":"viper-i"}]`, body)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	res, body = get(t, front.URL+"/api/items?page=1")
	require.Equal(t, "HIT", res.Header.Get("X-Cache"))
	require.Equal(t, `[{"id":"viper-i"}]`, body)
	require.Equal(t, "application/json", res.Header.Get("Content-Type"))

	require.Equal(t, 1, upstreamCalls)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	upstreamCalls := 0
	_, front := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		w.Write([]byte(`[]`))
	}, time.Minute)

	get(t, front.URL+"/api/items?page=1")
	get(t, front.URL+"/api/items?page=2")
	require.Equal(t, 2, upstreamCalls)
}

func TestErrorsNotCached(t *testing.T) {
	upstreamCalls := 0
	_, front := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		w.WriteHeader(http.StatusNotFound)
	}, time.Minute)

	res, _ := get(t, front.URL+"/api/unknown")
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = get(t, front.URL+"/api/unknown")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "MISS", res.Header.Get("X-Cache"))
	require.Equal(t, 2, upstreamCalls)
}

func TestPreflight(t *testing.T) {
	_, front := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach upstream")
	}, time.Minute)

	req, err := http.NewRequest(http.MethodOptions, front.URL+"/api/items", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	_, front := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("must not reach upstream")
	}, time.Minute)

	res, err := http.Post(front.URL+"/api/items", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
