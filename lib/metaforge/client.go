package metaforge

import (
	"net/http/cookiejar"
	"time"

	"arcraiders-data/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("metaforge")

const DefaultBaseURL = "https://metaforge.gg/api/arc-raiders"

// PageSize is the upstream page size. Every non-final page is assumed to
// hold exactly this many records; a shorter page ends the collection.
const PageSize = 50

// Collections lists the collection names the upstream serves besides the
// per-map location data.
var Collections = []string{"items", "factions", "quests"}

type ClientOptions struct {
	BaseUrl string
	// delay between successful page fetches
	PageDelay time.Duration
	// delay before retrying a rate-limited page
	RateLimitDelay time.Duration
	// delay before retrying a transiently failed page
	RetryDelay time.Duration
}

type Client struct {
	Http *resty.Client

	pageDelay      time.Duration
	rateLimitDelay time.Duration
	retryDelay     time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseURL
	}
	if opts.PageDelay == 0 {
		opts.PageDelay = time.Millisecond * 1500
	}
	if opts.RateLimitDelay == 0 {
		opts.RateLimitDelay = time.Second * 10
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Second * 5
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "metaforge/http")

	return &Client{
		Http:           client,
		pageDelay:      opts.PageDelay,
		rateLimitDelay: opts.RateLimitDelay,
		retryDelay:     opts.RetryDelay,
	}, nil
}
