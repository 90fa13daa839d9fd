// Package proxy fronts the upstream API for browser clients: a plain GET
// pass-through that adds permissive CORS headers and a fixed-TTL response
// cache so page loads do not hammer the upstream rate limit.
package proxy

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"arcraiders-data/lib/telemetry"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/proxy")

const DefaultTTL = time.Minute * 5

type Options struct {
	BaseUrl string
	// how long a cached upstream response is served before it expires;
	// zero means DefaultTTL
	Ttl time.Duration
}

type Service struct {
	http  *resty.Client
	cache *gocache.Cache
	ttl   time.Duration
}

func NewService(opts Options) *Service {
	ttl := opts.Ttl
	if ttl == 0 {
		ttl = DefaultTTL
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "services/proxy/http")

	return &Service{
		http:  client,
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// Handler serves GET /api/{collection}?... by forwarding to
// {base}/{collection}?... and replaying cached 200s until they expire.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api/", http.HandlerFunc(s.serve)))
	return mux
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "proxy:serve")
	defer span.End()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	endpoint := strings.Trim(r.URL.Path, "/")
	if endpoint == "" {
		http.Error(w, "missing collection", http.StatusBadRequest)
		return
	}
	key := endpoint + "?" + r.URL.RawQuery

	if hit, ok := s.cache.Get(key); ok {
		cached := hit.(cachedResponse)
		w.Header().Set("Content-Type", cached.contentType)
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(cached.status)
		w.Write(cached.body)
		return
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(r.URL.Query()).
		Get(endpoint)
	if err != nil {
		slog.ErrorContext(ctx, "upstream request failed", "endpoint", endpoint, "err", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	contentType := res.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	// only successful responses are worth replaying
	if res.StatusCode() == http.StatusOK {
		s.cache.Set(key, cachedResponse{
			status:      res.StatusCode(),
			contentType: contentType,
			body:        res.Body(),
		}, s.ttl)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(res.StatusCode())
	w.Write(res.Body())
}
