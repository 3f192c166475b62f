// Package core holds the authenticated portal session: a resty client
// with browser-mimicking headers, a cookie store and the login state
// machine. A *Client is the session value, there is no process-global
// session; callers own its lifetime and pass it to fetchers explicitly.
package core

import (
	"net/url"
	"time"

	"iulms-backend/lib/cookiestore"
	"iulms-backend/lib/restyutil"
	"iulms-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultLoginPath = "/login/index.php"

// deliberate pacing between login steps, not backoff
const (
	primeDelay  = 800 * time.Millisecond
	submitDelay = 1200 * time.Millisecond
)

var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language":           "en-US,en;q=0.9",
	"Connection":                "keep-alive",
	"Cache-Control":             "max-age=0",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	jar        *cookiestore.Jar
	loginPath  string
	classifier OutcomeClassifier

	primeDelay  time.Duration
	submitDelay time.Duration
}

type ClientOptions struct {
	BaseUrl string
	// defaults to DefaultLoginPath
	LoginPath string
	// defaults to DefaultClassifier
	Classifier *OutcomeClassifier
	// skips the pacing delays between login steps, tests only
	DisablePacing bool
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	jar := cookiestore.New()

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeaders(browserHeaders)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	// the portal rejects requests without a same-origin referer on some
	// pages; fill Referer/Origin from the target origin when the caller
	// did not set one
	origin := baseUrl.Scheme + "://" + baseUrl.Host
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get("Referer") == "" {
			req.SetHeader("Referer", origin+"/")
		}
		if req.Header.Get("Origin") == "" {
			req.SetHeader("Origin", origin)
		}
		return nil
	})

	telemetry.InstrumentResty(client, "scrapers/iulms/http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	classifier := DefaultClassifier
	if opts.Classifier != nil {
		classifier = *opts.Classifier
	}

	c := &Client{
		BaseUrl:     baseUrl,
		Http:        client,
		jar:         jar,
		loginPath:   loginPath,
		classifier:  classifier,
		primeDelay:  primeDelay,
		submitDelay: submitDelay,
	}
	if opts.DisablePacing {
		c.primeDelay = 0
		c.submitDelay = 0
	}
	return c, nil
}

func (c *Client) LoginUrl() *url.URL {
	ref, err := url.Parse(c.loginPath)
	if err != nil {
		return c.BaseUrl
	}
	return c.BaseUrl.ResolveReference(ref)
}
